package model

import "time"

// APIKey authenticates inbound webhook calls. Only the SHA-256 hash of
// the key is stored.
type APIKey struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Label    string     `gorm:"not null" json:"label"`
	KeyHash  string     `gorm:"uniqueIndex;not null" json:"-"`
	Active   bool       `gorm:"default:true" json:"active"`
	LastUsed *time.Time `json:"last_used,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Request log states.
const (
	RequestStatePending = "pending"
	RequestStateSuccess = "success"
	RequestStateFailed  = "failed"
)

// RequestLog is the audit record written for every webhook call,
// created before dispatch and finalized with the outcome.
type RequestLog struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	RequestID  string `gorm:"uniqueIndex;not null" json:"request_id"`
	Endpoint   string `gorm:"index;not null" json:"endpoint"`
	EntityType string `gorm:"index" json:"entity_type"`
	Action     string `json:"action"`

	RequestBody  string `gorm:"type:text" json:"request_body"`
	ResponseBody string `gorm:"type:text" json:"response_body"`
	RemoteAddr   string `json:"remote_addr"`
	UserAgent    string `json:"user_agent"`

	State        string `gorm:"index;default:pending" json:"state"`
	EntityID     string `gorm:"index" json:"entity_id"`
	RecordID     uint   `json:"record_id"`
	ErrorMessage string `json:"error_message,omitempty"`
	ErrorDetails string `gorm:"type:text" json:"error_details,omitempty"`
	ProcessingMs int64  `json:"processing_time_ms"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sequence backs gap-free document numbering per prefix.
type Sequence struct {
	Name    string `gorm:"primaryKey" json:"name"`
	NextVal int64  `gorm:"default:1" json:"next_val"`

	UpdatedAt time.Time `json:"updated_at"`
}

// All returns every model for migration, ordered so foreign keys
// resolve.
func All() []any {
	return []any{
		&Partner{},
		&Branch{},
		&Product{},
		&CommissionRule{},
		&Booking{},
		&BookingLine{},
		&InvoiceDocument{},
		&InvoiceLine{},
		&Payment{},
		&Tax{},
		&APIKey{},
		&RequestLog{},
		&Sequence{},
	}
}
