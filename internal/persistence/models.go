package persistence

// Keys of the two durable entries backing the client session.
const (
	KeyUser      = "user"
	KeyAuthToken = "authToken"
)
