package store

// Chat message roles. Anything else arriving at the API boundary is
// normalized to RoleModel before it reaches the generator or the store.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// NormalizeRole collapses unrecognized roles to RoleModel.
func NormalizeRole(role string) string {
	if role == RoleUser {
		return RoleUser
	}
	return RoleModel
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRecord is one persisted conversation. ID is the record's key in the
// database, attached on reads and never written as a field.
type ChatRecord struct {
	ID        string        `json:"id,omitempty"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	Context   string        `json:"context,omitempty"`
	Timestamp string        `json:"timestamp"`
	OwnerID   string        `json:"uid"`
}

// ShareRecord maps a share token to a chat, enabling unauthenticated reads.
type ShareRecord struct {
	ChatID    string `json:"chatId"`
	OwnerID   string `json:"uid"`
	Timestamp string `json:"timestamp"`
}
