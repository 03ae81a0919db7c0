package defs

// Common labels for logging
const (
	LabelComponent = "component"
	LabelName      = "name"
	LabelPart      = "part"

	LabelAddress = "address"
	LabelClient  = "client"
	LabelBatch   = "batch"
)

// Content types of encoded batches
const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

// DefaultLokiURL is the push endpoint of a local Loki
const DefaultLokiURL = "http://localhost:3100/loki/api/v1/push"
