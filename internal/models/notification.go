package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is one entry in a user's embedded notification log. Entries are
// append-ordered; only the read flag is ever mutated after creation.
type Notification struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	Text         string             `json:"text" bson:"text"`
	Read         bool               `json:"read" bson:"read"`
	PortfolioID  primitive.ObjectID `json:"portfolio,omitempty" bson:"portfolio,omitempty"`       // the acting user's portfolio
	ProfileImage string             `json:"profileImage,omitempty" bson:"profileImage,omitempty"` // the acting user's image
	CommentID    primitive.ObjectID `json:"comment,omitempty" bson:"comment,omitempty"`           // set when a comment triggered it
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// UnreadNotifications returns the entries not yet marked read, in log order.
func (u *User) UnreadNotifications() []Notification {
	unread := []Notification{}
	for _, n := range u.Notifications {
		if !n.Read {
			unread = append(unread, n)
		}
	}
	return unread
}

// MarkNotificationRead flips the read flag on the entry with the given id and
// reports whether it was found.
func (u *User) MarkNotificationRead(id primitive.ObjectID) bool {
	for i := range u.Notifications {
		if u.Notifications[i].ID == id {
			u.Notifications[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllNotificationsRead flips the read flag on every unread entry.
func (u *User) MarkAllNotificationsRead() {
	for i := range u.Notifications {
		u.Notifications[i].Read = true
	}
}

// RemoveNotification deletes the entry with the given id and reports whether it
// was found.
func (u *User) RemoveNotification(id primitive.ObjectID) bool {
	for i := range u.Notifications {
		if u.Notifications[i].ID == id {
			u.Notifications = append(u.Notifications[:i], u.Notifications[i+1:]...)
			return true
		}
	}
	return false
}
