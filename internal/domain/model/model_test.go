package model_test

import (
	"testing"

	"github.com/okian/skillrank/internal/domain/model"
	"github.com/okian/skillrank/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOutcomeFromScores(t *testing.T) {
	Convey("Given set scores", t, func() {
		Convey("Then a positive differential is a first-competitor win", func() {
			So(model.OutcomeFromScores(3, 1), ShouldEqual, rating.FirstWins)
		})
		Convey("Then a negative differential is a second-competitor win", func() {
			So(model.OutcomeFromScores(0, 2), ShouldEqual, rating.SecondWins)
		})
		Convey("Then an equal score is a draw", func() {
			So(model.OutcomeFromScores(2, 2), ShouldEqual, rating.Draw)
		})
		Convey("Then disqualification scores keep their sign", func() {
			So(model.OutcomeFromScores(0, -1), ShouldEqual, rating.FirstWins)
		})
	})
}

func TestNewCompetitor(t *testing.T) {
	Convey("Given a player and a prior", t, func() {
		prior := rating.DefaultConfig().Prior()
		c := model.NewCompetitor(model.Player{ID: "4702", Name: "Dabuz"}, prior)

		Convey("Then the competitor starts with the prior and no tallies", func() {
			So(c.ID, ShouldEqual, "4702")
			So(c.Name, ShouldEqual, "Dabuz")
			So(c.Rating, ShouldResemble, prior)
			So(c.Wins, ShouldEqual, 0)
			So(c.Losses, ShouldEqual, 0)
		})
	})
}

func TestTally(t *testing.T) {
	Convey("Given two competitors", t, func() {
		a := &model.Competitor{ID: "a"}
		b := &model.Competitor{ID: "b"}

		Convey("When the first wins", func() {
			model.Tally(a, b, rating.FirstWins)
			So(a.Wins, ShouldEqual, 1)
			So(b.Losses, ShouldEqual, 1)
			So(a.Losses+b.Wins, ShouldEqual, 0)
		})

		Convey("When the second wins", func() {
			model.Tally(a, b, rating.SecondWins)
			So(b.Wins, ShouldEqual, 1)
			So(a.Losses, ShouldEqual, 1)
			So(a.Wins+b.Losses, ShouldEqual, 0)
		})

		Convey("When they draw", func() {
			model.Tally(a, b, rating.Draw)
			So(a.Wins+a.Losses+b.Wins+b.Losses, ShouldEqual, 0)
		})
	})
}

func TestFilterMatches(t *testing.T) {
	Convey("Given a roster of two known identities", t, func() {
		known := map[string]bool{"a": true, "b": true}
		isKnown := func(id string) bool { return known[id] }

		matches := []model.Match{
			{FirstID: "a", SecondID: "b", Outcome: rating.FirstWins},
			{FirstID: "a", SecondID: "UNKNOWN", Outcome: rating.FirstWins},
			{FirstID: "", SecondID: "b", Outcome: rating.SecondWins},
			{FirstID: "b", SecondID: "b", Outcome: rating.Draw},
			{FirstID: "b", SecondID: "a", Outcome: rating.Draw},
		}

		Convey("When filtering", func() {
			kept, dropped := model.FilterMatches(matches, isKnown)

			Convey("Then only resolvable, distinct pairs survive in order", func() {
				So(dropped, ShouldEqual, 3)
				So(kept, ShouldResemble, []model.Match{matches[0], matches[4]})
			})
		})

		Convey("When filtering nothing", func() {
			kept, dropped := model.FilterMatches(nil, isKnown)
			So(kept, ShouldBeEmpty)
			So(dropped, ShouldEqual, 0)
		})
	})
}
