package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultRoom(mode Mode) *Room {
	return newRoom("r1", mode, "p1", 0, 8)
}

func addResultPlayer(r *Room, id string, score, wrong int, finished time.Time, team string) {
	p := &Participant{ID: id, DisplayName: id, Active: true, Team: team, Wrong: wrong, finishedAt: finished}
	r.Players = append(r.Players, p)
	r.Scores[id] = score
	if team != "" {
		r.TeamScores[team] += score
	}
}

func TestAggregateRanksByScore(t *testing.T) {
	r := resultRoom(ModeDuel)
	now := time.Now()
	addResultPlayer(r, "p1", 120, 1, now, "")
	addResultPlayer(r, "p2", 250, 3, now, "")
	addResultPlayer(r, "p3", 80, 0, now, "")

	snap := Aggregate(r, ReasonNormal)

	require.Len(t, snap.Players, 3)
	assert.Equal(t, []string{"p2", "p1", "p3"}, []string{snap.Players[0].ID, snap.Players[1].ID, snap.Players[2].ID})
	assert.Equal(t, 1, snap.Players[0].Rank)
	assert.True(t, snap.Players[0].Winner)
	assert.False(t, snap.Players[1].Winner)
	assert.Equal(t, ReasonNormal, snap.Reason)
}

func TestAggregateTieBreaks(t *testing.T) {
	now := time.Now()

	t.Run("fewer wrong answers wins the tie", func(t *testing.T) {
		r := resultRoom(ModeDuel)
		addResultPlayer(r, "sloppy", 200, 4, now, "")
		addResultPlayer(r, "precise", 200, 1, now, "")

		snap := Aggregate(r, ReasonNormal)
		assert.Equal(t, "precise", snap.Players[0].ID)
	})

	t.Run("earlier finish wins the tie", func(t *testing.T) {
		r := resultRoom(ModeDuel)
		addResultPlayer(r, "slow", 200, 1, now.Add(5*time.Second), "")
		addResultPlayer(r, "fast", 200, 1, now, "")

		snap := Aggregate(r, ReasonNormal)
		assert.Equal(t, "fast", snap.Players[0].ID)
	})

	t.Run("never finished sorts after any finisher", func(t *testing.T) {
		r := resultRoom(ModeDuel)
		addResultPlayer(r, "idle", 0, 0, time.Time{}, "")
		addResultPlayer(r, "played", 0, 0, now, "")

		snap := Aggregate(r, ReasonNormal)
		assert.Equal(t, "played", snap.Players[0].ID)
	})

	t.Run("full tie keeps roster order", func(t *testing.T) {
		r := resultRoom(ModeDuel)
		addResultPlayer(r, "first", 100, 1, now, "")
		addResultPlayer(r, "second", 100, 1, now, "")

		snap := Aggregate(r, ReasonNormal)
		assert.Equal(t, "first", snap.Players[0].ID)
		assert.Equal(t, "second", snap.Players[1].ID)
	})
}

func TestAggregateDeterministic(t *testing.T) {
	r := resultRoom(ModeDuel)
	now := time.Now()
	addResultPlayer(r, "a", 100, 2, now, "")
	addResultPlayer(r, "b", 100, 2, now, "")
	addResultPlayer(r, "c", 300, 0, now, "")

	first := Aggregate(r, ReasonNormal)
	for i := 0; i < 10; i++ {
		again := Aggregate(r, ReasonNormal)
		for j := range first.Players {
			require.Equal(t, first.Players[j].ID, again.Players[j].ID)
			require.Equal(t, first.Players[j].Rank, again.Players[j].Rank)
		}
	}
}

func TestAggregateTeams(t *testing.T) {
	r := resultRoom(ModeTeam)
	now := time.Now()
	addResultPlayer(r, "r1", 100, 1, now, TeamRed)
	addResultPlayer(r, "b1", 120, 0, now, TeamBlue)
	addResultPlayer(r, "r2", 90, 2, now, TeamRed)
	addResultPlayer(r, "b2", 50, 1, now, TeamBlue)

	snap := Aggregate(r, ReasonNormal)

	require.Len(t, snap.Teams, 2)
	assert.Equal(t, TeamRed, snap.Teams[0].Name)
	assert.Equal(t, 190, snap.Teams[0].Score)
	assert.True(t, snap.Teams[0].Winner)
	assert.Equal(t, TeamBlue, snap.Teams[1].Name)
	assert.Equal(t, 170, snap.Teams[1].Score)
	assert.Equal(t, 2, snap.Teams[1].Rank)
	assert.ElementsMatch(t, []string{"r1", "r2"}, snap.Teams[0].Members)
}

func TestSnapshotImmutableAfterRoomMutation(t *testing.T) {
	r := resultRoom(ModeDuel)
	addResultPlayer(r, "p1", 150, 0, time.Now(), "")
	addResultPlayer(r, "p2", 90, 1, time.Now(), "")

	snap := Aggregate(r, ReasonNormal)

	// Mutate the room the way teardown would.
	r.Scores["p1"] = 0
	r.Players[0].Wrong = 99
	r.Players = nil

	assert.Equal(t, 150, snap.Players[0].Score)
	assert.Equal(t, 0, snap.Players[0].Wrong)
	assert.Len(t, snap.Players, 2)
}
