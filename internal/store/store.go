// Package store persists a finished content tree to sqlite so packaging
// can run without re-crawling.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"osmosis-chef/lib/contenttree"
)

const Schema = `
CREATE TABLE channel (
	source_domain TEXT NOT NULL,
	source_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	thumbnail TEXT NOT NULL,
	description TEXT NOT NULL,
	language TEXT NOT NULL
);
CREATE TABLE topics (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	thumbnail TEXT NOT NULL,
	playlist_id TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE videos (
	id TEXT NOT NULL,
	topic_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	subtitle_languages TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (topic_id, id)
);
CREATE TABLE exercises (
	id TEXT PRIMARY KEY,
	topic_id TEXT NOT NULL,
	title TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE items (
	id TEXT PRIMARY KEY,
	exercise_id TEXT NOT NULL,
	question TEXT NOT NULL,
	choices TEXT NOT NULL,
	correct_answer TEXT NOT NULL,
	hints TEXT NOT NULL,
	position INTEGER NOT NULL
);
`

// Save writes the whole tree in one transaction. Position columns keep
// discovery order across all child collections.
func Save(ctx context.Context, db *sql.DB, channel *contenttree.Channel) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO channel (source_domain, source_id, title, thumbnail, description, language)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		channel.SourceDomain, channel.SourceId, channel.Title,
		channel.Thumbnail, channel.Description, channel.Language,
	)
	if err != nil {
		return fmt.Errorf("insert channel: %w", err)
	}

	for topicIdx, topic := range channel.Topics {
		err = saveTopic(ctx, tx, topic, topicIdx)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func saveTopic(ctx context.Context, tx *sql.Tx, topic *contenttree.Topic, position int) error {
	playlistId := ""
	if topic.Playlist != nil {
		playlistId = topic.Playlist.Id
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO topics (id, title, thumbnail, playlist_id, position)
		 VALUES (?, ?, ?, ?, ?)`,
		topic.Id, topic.Title, topic.Thumbnail, playlistId, position,
	)
	if err != nil {
		return fmt.Errorf("insert topic %s: %w", topic.Id, err)
	}

	if topic.Playlist != nil {
		for videoIdx, video := range topic.Playlist.Videos {
			languages, err := json.Marshal(video.SubtitleLanguages)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO videos (id, topic_id, title, description, subtitle_languages, position)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				video.Id, topic.Id, video.Title, video.Description,
				string(languages), videoIdx,
			)
			if err != nil {
				return fmt.Errorf("insert video %s: %w", video.Id, err)
			}
		}
	}

	for exerciseIdx, exercise := range topic.Exercises {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO exercises (id, topic_id, title, position)
			 VALUES (?, ?, ?, ?)`,
			exercise.Id, topic.Id, exercise.Title, exerciseIdx,
		)
		if err != nil {
			return fmt.Errorf("insert exercise %s: %w", exercise.Id, err)
		}

		for itemIdx, item := range exercise.Items {
			choices, err := json.Marshal(item.Choices)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO items (id, exercise_id, question, choices, correct_answer, hints, position)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				item.Id, exercise.Id, item.Question, string(choices),
				item.CorrectAnswer, item.Hints, itemIdx,
			)
			if err != nil {
				return fmt.Errorf("insert item %s: %w", item.Id, err)
			}
		}
	}

	return nil
}
