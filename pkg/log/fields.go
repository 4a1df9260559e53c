package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Chat actors
	FieldUserID      = "user_id"
	FieldSalonID     = "salon_id"
	FieldRoomID      = "room_id"
	FieldMessageID   = "message_id"
	FieldSenderType  = "sender_type"
	FieldParticipant = "participant"

	// Translation
	FieldSourceLang = "source_lang"
	FieldTargetLang = "target_lang"

	// Service
	FieldService = "service"
)
