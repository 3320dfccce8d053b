package chef

import (
	"fmt"

	"osmosis-chef/lib/contenttree"
)

// batchSize is the fixed number of questions per exercise unit.
const batchSize = 5

// exerciseGrouper buckets a topic's flat item stream into exercise units.
// Batch boundaries depend only on the running count, never on content.
type exerciseGrouper struct {
	topic *contenttree.Topic
	// name is the assessment topic's own display name; unit titles use it
	// even when the topic was merged under a composite title.
	name string

	count        int
	current      *contenttree.ExerciseUnit
	currentFirst int
}

func newExerciseGrouper(topic *contenttree.Topic, name string) *exerciseGrouper {
	return &exerciseGrouper{topic: topic, name: name}
}

// Accept appends the item to the open unit, opening a new one at every
// batch boundary. The new unit takes the item's id and a provisional
// title spanning a full batch.
func (g *exerciseGrouper) Accept(item contenttree.AssessmentItem) {
	if g.count%batchSize == 0 {
		g.currentFirst = g.count
		g.current = &contenttree.ExerciseUnit{
			Id:    item.Id,
			Title: fmt.Sprintf("%s %d-%d", g.name, g.count+1, g.count+batchSize),
		}
		g.topic.AddExercise(g.current)
	}
	g.current.AddItem(item)
	g.count++
}

// Finish retitles the open unit to the true last-item index. Called once
// the walk is done, also after a partial walk so whatever was extracted
// keeps an honest title.
func (g *exerciseGrouper) Finish() {
	if g.current == nil {
		return
	}
	g.current.Title = fmt.Sprintf("%s %d-%d", g.name, g.currentFirst+1, g.count)
}
