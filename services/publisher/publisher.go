package publisher

// Message keys of the published stream entries
const (
	KeyJobListing = "job_listing"
	KeyProfile    = "profile"
)

// Publisher represents a service for publishing scan results
type Publisher interface {
	// Publish appends message under key to one of the result streams
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
