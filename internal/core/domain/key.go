package domain

import (
	"fmt"
	"strconv"
)

// DisplayKey derives the addressing key for a timeline item at the given
// position. Events carry no guaranteed id, and upstream ids can collide, so
// the key is total over (id-or-index, kind, position): expand state, forced
// expand and transcripts all use it, which keeps concurrent updates addressed
// to the correct item.
func DisplayKey(e TimelineEvent, position int) string {
	id := e.Identifier()
	if id == "" {
		id = "idx" + strconv.Itoa(position)
	}
	return fmt.Sprintf("%s#%d#%s", e.Kind, position, id)
}
