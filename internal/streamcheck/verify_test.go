package streamcheck

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func seq(types ...string) []Record {
	out := make([]Record, len(types))
	for i, t := range types {
		out[i] = Record{Type: t}
	}
	return out
}

func TestVerifySequence(t *testing.T) {
	Convey("Given well-formed streams", t, func() {
		good := [][]Record{
			{
				{Type: evPMStart}, {Type: evPMComplete},
				{Type: evTeamStart, Team: "tech"},
				{Type: evMemberAssign, Team: "tech"},
				{Type: evMemberAssign, Team: "tech"},
				{Type: evTeamComplete, Team: "tech"},
				{Type: evTeamStart, Team: "marketing"},
				{Type: evTeamSkipped, Team: "marketing"},
				{Type: evComplete},
			},
			seq(evPMStart, evPMComplete, evComplete),
			seq(evError),
			seq(evPMStart, evPMComplete, evError),
		}
		for _, events := range good {
			So(VerifySequence(events), ShouldBeNil)
		}
	})

	Convey("Given malformed streams", t, func() {
		bad := map[string][]Record{
			"empty":                     {},
			"missing pm pair":           seq(evPMStart, evComplete),
			"team before pm complete":   seq(evPMStart, evTeamStart, evPMComplete, evComplete),
			"events after terminal":     seq(evPMStart, evPMComplete, evComplete, evComplete),
			"no terminal":               seq(evPMStart, evPMComplete),
			"events after input error":  seq(evError, evComplete),
			"duplicate pm start":        seq(evPMStart, evPMComplete, evPMStart, evComplete),
			"unknown event":             append(seq(evPMStart, evPMComplete), Record{Type: "mystery"}, Record{Type: evComplete}),
			"assignment outside window": {
				{Type: evPMStart}, {Type: evPMComplete},
				{Type: evMemberAssign, Team: "tech"},
				{Type: evComplete},
			},
			"complete with open team": {
				{Type: evPMStart}, {Type: evPMComplete},
				{Type: evTeamStart, Team: "tech"},
				{Type: evComplete},
			},
			"assignment for wrong team": {
				{Type: evPMStart}, {Type: evPMComplete},
				{Type: evTeamStart, Team: "tech"},
				{Type: evMemberAssign, Team: "marketing"},
				{Type: evTeamComplete, Team: "tech"},
				{Type: evComplete},
			},
		}
		for name, events := range bad {
			Convey("Then "+name+" is rejected", func() {
				So(errors.Is(VerifySequence(events), ErrOrder), ShouldBeTrue)
			})
		}
	})
}
