package model

// Kind tags the four candidate variants.
type Kind string

const (
	KindMessage       Kind = "message"
	KindTask          Kind = "task"
	KindEvent         Kind = "event"
	KindExtractedDate Kind = "extracted_date"
)

// Kinds lists every candidate kind in tie-break order.
var Kinds = []Kind{KindTask, KindExtractedDate, KindEvent, KindMessage}

// Candidate is a read-only record eligible for one ranking pass. The set of
// implementations is closed: Message, Task, CalendarEvent, ExtractedDate.
type Candidate interface {
	Kind() Kind
	CandidateID() int
	sealed()
}

func (Message) Kind() Kind       { return KindMessage }
func (Task) Kind() Kind          { return KindTask }
func (CalendarEvent) Kind() Kind { return KindEvent }
func (ExtractedDate) Kind() Kind { return KindExtractedDate }

func (m Message) CandidateID() int       { return m.ID }
func (t Task) CandidateID() int          { return t.ID }
func (e CalendarEvent) CandidateID() int { return e.ID }
func (d ExtractedDate) CandidateID() int { return d.ID }

func (Message) sealed()       {}
func (Task) sealed()          {}
func (CalendarEvent) sealed() {}
func (ExtractedDate) sealed() {}
