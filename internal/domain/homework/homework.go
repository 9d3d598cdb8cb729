// internal/domain/homework/homework.go
package homework

// Status is the review state reported by the Practicum API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// verdicts maps every known status to the phrase shown in the chat.
// It is never modified after package initialisation.
var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the human-readable phrase for a status.
func Verdict(s Status) (string, bool) {
	v, ok := verdicts[s]
	return v, ok
}

// Homework is a single tracked work item taken from an API response.
type Homework struct {
	Name    string // display name, already truncated at the first '.'
	Status  Status
	Comment string // empty when the reviewer left nothing
}

// Response is a structurally valid API answer.
type Response struct {
	Items       []any // raw item entries, newest first
	CurrentDate int64 // next poll cursor
}

// Latest returns the newest entry of the response.
// The Practicum API lists homeworks newest first, so the newest one is
// always at index 0. The bot relies on that ordering and does not sort.
func (r Response) Latest() (any, bool) {
	if len(r.Items) == 0 {
		return nil, false
	}
	return r.Items[0], true
}
