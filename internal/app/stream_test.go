package service

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func collect(ch <-chan Event) []Event {
	var out []Event
	for e := range ch {
		out = append(out, e)
	}
	return out
}

func indexOf(events []Event, t EventType) int {
	for i, e := range events {
		if e.Type == t {
			return i
		}
	}
	return -1
}

func TestStreamCausalOrdering(t *testing.T) {
	Convey("Given a streamed feature-release allocation", t, func() {
		svc := newTestService()
		events := collect(svc.Stream(context.Background(), Request{
			TaskDescription: "Build OAuth login",
			TaskType:        "feature_release",
		}))

		Convey("Then the stream starts with the pm pair", func() {
			So(events[0].Type, ShouldEqual, EventPMNodeStart)
			So(events[1].Type, ShouldEqual, EventPMNodeComplete)
			So(events[1].Strategy, ShouldEqual, "template")
		})

		Convey("Then pm_node_complete precedes every team_node_start", func() {
			pmDone := indexOf(events, EventPMNodeComplete)
			for i, e := range events {
				if e.Type == EventTeamNodeStart {
					So(i, ShouldBeGreaterThan, pmDone)
				}
			}
		})

		Convey("Then each team's member_assigned events precede its completion", func() {
			done := map[string]int{}
			for i, e := range events {
				if e.Type == EventTeamNodeComplete {
					done[e.Team] = i
				}
			}
			for i, e := range events {
				if e.Type == EventMemberAssigned {
					So(i, ShouldBeLessThan, done[e.Team])
				}
			}
		})

		Convey("Then teams without work are skipped, not completed", func() {
			So(indexOf(events, EventTeamSkipped), ShouldBeGreaterThan, -1)
			for i, e := range events {
				if e.Type == EventTeamSkipped {
					So(events[i-1].Type, ShouldEqual, EventTeamNodeStart)
					So(events[i-1].Team, ShouldEqual, e.Team)
				}
			}
		})

		Convey("Then allocation_complete is last and carries the full result", func() {
			last := events[len(events)-1]
			So(last.Type, ShouldEqual, EventAllocationComplete)
			So(last.Result, ShouldNotBeNil)
			So(len(last.Result.Teams), ShouldEqual, 3)

			Convey("And the result matches what member_assigned events carried", func() {
				n := 0
				for _, e := range events {
					if e.Type == EventMemberAssigned {
						n++
					}
				}
				So(n, ShouldEqual, last.Result.TaskCount())
			})
		})
	})
}

func TestStreamFallbackParity(t *testing.T) {
	Convey("Given a stream whose provider strategy always fails", t, func() {
		svc := newTestService(WithHierarchical(alwaysFailing("hierarchical")))
		events := collect(svc.Stream(context.Background(), Request{
			TaskDescription: "launch the new product",
			UseHierarchical: true,
		}))

		Convey("Then the stream still reaches allocation_complete via the template", func() {
			last := events[len(events)-1]
			So(last.Type, ShouldEqual, EventAllocationComplete)
			So(last.Result.Strategy, ShouldEqual, "template")
		})
	})
}

func TestStreamInputError(t *testing.T) {
	Convey("Given a stream with an empty task description", t, func() {
		svc := newTestService()
		events := collect(svc.Stream(context.Background(), Request{TaskDescription: ""}))

		Convey("Then allocation_error is the first and only event", func() {
			So(len(events), ShouldEqual, 1)
			So(events[0].Type, ShouldEqual, EventAllocationError)
			So(events[0].Error, ShouldNotBeEmpty)
		})
	})
}

func TestStreamCancellation(t *testing.T) {
	Convey("Given a consumer that walks away mid-stream", t, func() {
		svc := newTestService()
		ctx, cancel := context.WithCancel(context.Background())
		ch := svc.Stream(ctx, Request{TaskDescription: "Build OAuth login", TaskType: "feature_release"})

		first := <-ch
		So(first.Type, ShouldEqual, EventPMNodeStart)
		cancel()

		Convey("Then production stops and the channel closes", func() {
			deadline := time.After(2 * time.Second)
			for {
				select {
				case _, ok := <-ch:
					if !ok {
						return
					}
				case <-deadline:
					t.Fatal("stream did not close after cancellation")
				}
			}
		})
	})
}
