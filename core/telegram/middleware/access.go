package middleware

import tele "gopkg.in/telebot.v4"

// AdminOptions name the bot operator. OnReject, when set, answers everyone else.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

func isAdmin(c tele.Context, adminID int64) bool {
	u := c.Sender()
	return adminID != 0 && u != nil && u.ID == adminID
}

// AdminOnlyMiddleware lets only the operator through. Without a configured
// operator nobody passes.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if isAdmin(c, opts.AdminID) {
				return next(c)
			}
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
	}
}
