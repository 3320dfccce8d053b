package store

import (
	"context"
	"testing"

	"osmosis-chef/lib/contenttree"
	"osmosis-chef/lib/sqliteutil"

	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	db, err := sqliteutil.OpenDB(Schema, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	channel := &contenttree.Channel{
		SourceDomain: "open.osmosis.org",
		SourceId:     "open-osmosis",
		Title:        "Open Osmosis",
		Language:     "en",
	}
	channel.AddTopic(&contenttree.Topic{
		Id:    "genetics",
		Title: "Genetics (Genetics pathology)",
		Playlist: &contenttree.Playlist{
			Id:    "PL123",
			Title: "Genetics pathology",
			Videos: []contenttree.Video{
				{Id: "v1", Title: "Trisomy 21", SubtitleLanguages: []string{"en", "es"}},
				{Id: "v2", Title: "Turner syndrome"},
			},
		},
		Exercises: []*contenttree.ExerciseUnit{
			{
				Id:    "q1",
				Title: "Genetics 1-2",
				Items: []contenttree.AssessmentItem{
					{Id: "q1", Question: "Q1", Choices: []string{"a", "b"}, CorrectAnswer: "a"},
					{Id: "q2", Question: "Q2", Choices: []string{"c", "d"}, CorrectAnswer: "d"},
				},
			},
		},
	})
	channel.AddTopic(&contenttree.Topic{Id: "anesthesiology", Title: "Anesthesiology"})

	require.NoError(t, Save(context.Background(), db, channel))

	var topics, videos, exercises, items int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM topics").Scan(&topics))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM videos").Scan(&videos))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM exercises").Scan(&exercises))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM items").Scan(&items))
	require.Equal(t, 2, topics)
	require.Equal(t, 2, videos)
	require.Equal(t, 1, exercises)
	require.Equal(t, 2, items)

	var title, choices string
	err = db.QueryRow("SELECT title FROM topics WHERE id = ?", "genetics").Scan(&title)
	require.NoError(t, err)
	require.Equal(t, "Genetics (Genetics pathology)", title)

	err = db.QueryRow("SELECT choices FROM items WHERE id = ?", "q2").Scan(&choices)
	require.NoError(t, err)
	require.JSONEq(t, `["c","d"]`, choices)
}
