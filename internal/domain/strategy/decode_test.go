package strategy

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/teamplan/alloc/internal/domain/model"
)

func TestDecodeSubtasks(t *testing.T) {
	Convey("Given provider output with prose around the payload", t, func() {
		raw := `Sure, here is the plan:
[{"title": "Build API", "description": "endpoints", "complexity": "high"}]
Let me know if you need more.`

		Convey("Then the JSON array is extracted and decoded", func() {
			got, err := decodeSubtasks(raw)
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 1)
			So(got[0].Title, ShouldEqual, "Build API")

			Convey("And missing hours are derived from complexity", func() {
				So(got[0].EstimatedHours, ShouldEqual, 32)
			})
		})
	})

	Convey("Given an entry with hours but no complexity", t, func() {
		got, err := decodeSubtasks(`[{"title": "t", "description": "d", "estimated_hours": 30}]`)
		So(err, ShouldBeNil)

		Convey("Then complexity is derived from hours", func() {
			So(got[0].Complexity, ShouldEqual, model.ComplexityHigh)
		})
	})

	Convey("Given an entry with neither hours nor complexity", t, func() {
		got, err := decodeSubtasks(`[{"title": "t", "description": "d"}]`)
		So(err, ShouldBeNil)

		Convey("Then the medium defaults apply", func() {
			So(got[0].Complexity, ShouldEqual, model.ComplexityMedium)
			So(got[0].EstimatedHours, ShouldEqual, 16)
		})
	})

	Convey("Given malformed payloads", t, func() {
		cases := map[string]string{
			"no array at all":     `the team has nothing to do`,
			"unknown field":       `[{"title": "t", "description": "d", "owner": "x"}]`,
			"missing title":       `[{"description": "d"}]`,
			"negative hours":      `[{"title": "t", "description": "d", "estimated_hours": -1}]`,
			"unknown complexity":  `[{"title": "t", "description": "d", "complexity": "extreme"}]`,
			"trailing json value": `[] []`,
		}
		for name, raw := range cases {
			Convey("Then "+name+" is rejected", func() {
				_, err := decodeSubtasks(raw)
				So(errors.Is(err, ErrDecode), ShouldBeTrue)
			})
		}
	})

	Convey("Given more entries than the per-team ceiling", t, func() {
		raw := `[
  {"title": "a", "description": "d"}, {"title": "b", "description": "d"},
  {"title": "c", "description": "d"}, {"title": "e", "description": "d"},
  {"title": "f", "description": "d"}, {"title": "g", "description": "d"},
  {"title": "h", "description": "d"}, {"title": "i", "description": "d"}
]`
		got, err := decodeSubtasks(raw)
		So(err, ShouldBeNil)

		Convey("Then the list is truncated", func() {
			So(len(got), ShouldEqual, maxSubtasksPerTeam)
		})
	})

	Convey("Given an empty array", t, func() {
		got, err := decodeSubtasks(`[]`)

		Convey("Then it decodes to zero subtasks without error", func() {
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})
	})
}

func TestDecodePMPlan(t *testing.T) {
	org := testOrg()

	Convey("Given a valid plan", t, func() {
		plan, err := decodePMPlan(`{"task_type":"bug_fix","reasoning":"r","teams":[{"team":"Tech","reasoning":"r"}]}`, org)

		Convey("Then team keys match case-insensitively", func() {
			So(err, ShouldBeNil)
			So(len(plan.Teams), ShouldEqual, 1)
		})
	})

	Convey("Given invalid plans", t, func() {
		cases := map[string]string{
			"empty team list": `{"task_type":"bug_fix","reasoning":"r","teams":[]}`,
			"unknown team":    `{"task_type":"bug_fix","reasoning":"r","teams":[{"team":"legal","reasoning":"r"}]}`,
			"duplicate team":  `{"task_type":"bug_fix","reasoning":"r","teams":[{"team":"tech","reasoning":"a"},{"team":"tech","reasoning":"b"}]}`,
			"unknown field":   `{"task_type":"bug_fix","reasoning":"r","owner":"x","teams":[{"team":"tech","reasoning":"r"}]}`,
		}
		for name, raw := range cases {
			Convey("Then "+name+" is rejected", func() {
				_, err := decodePMPlan(raw, org)
				So(errors.Is(err, ErrDecode), ShouldBeTrue)
			})
		}
	})
}
