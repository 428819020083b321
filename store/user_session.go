package store

// UserSession is the durable session record mirroring an authenticated
// actor. Whatever Login/Register writes here is exactly what
// CheckAuthStatus reconstructs on the next request.
type UserSession struct {
	ID        int32
	Token     string
	UserID    int32
	Role      Role
	CreatedTs int64
	ExpiresTs int64
}

type FindUserSession struct {
	Token  *string
	UserID *int32
}

type DeleteUserSession struct {
	Token  *string
	UserID *int32
	// ExpiredBefore removes every session whose expiry precedes the
	// given unix timestamp. Used by the cleanup job.
	ExpiredBefore *int64
}
