package ports

// Notifier surfaces session status to the user.
type Notifier interface {
	// Optimizing toggles the loading indication of the optimize action.
	Optimizing(sessionID string, busy bool)
	// Error shows a user-visible failure notice.
	Error(sessionID string, msg string)
}
