package models

import "time"

type NotificationType string

const (
	NotificationBuildLike    NotificationType = "build_like"
	NotificationBuildComment NotificationType = "build_comment"
	NotificationCommentReply NotificationType = "comment_reply"
	NotificationCommentVote  NotificationType = "comment_vote"
)

// NotificationPreferences is the per-user opt-out set, one flag per
// NotificationType. Stored inline on user_profiles as notify_on_* columns.
type NotificationPreferences struct {
	BuildLike    bool `gorm:"not null" json:"notify_on_build_like"`
	BuildComment bool `gorm:"not null" json:"notify_on_build_comment"`
	CommentReply bool `gorm:"not null" json:"notify_on_comment_reply"`
	CommentVote  bool `gorm:"not null" json:"notify_on_comment_vote"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		BuildLike:    true,
		BuildComment: true,
		CommentReply: true,
		CommentVote:  false,
	}
}

// Enabled reports whether the recipient accepts notifications of type t.
// Unknown types are never enabled.
func (p NotificationPreferences) Enabled(t NotificationType) bool {
	switch t {
	case NotificationBuildLike:
		return p.BuildLike
	case NotificationBuildComment:
		return p.BuildComment
	case NotificationCommentReply:
		return p.CommentReply
	case NotificationCommentVote:
		return p.CommentVote
	default:
		return false
	}
}

// Apply returns a copy of p with every non-nil field of u applied.
func (p NotificationPreferences) Apply(u UpdatePreferencesRequest) NotificationPreferences {
	if u.BuildLike != nil {
		p.BuildLike = *u.BuildLike
	}
	if u.BuildComment != nil {
		p.BuildComment = *u.BuildComment
	}
	if u.CommentReply != nil {
		p.CommentReply = *u.CommentReply
	}
	if u.CommentVote != nil {
		p.CommentVote = *u.CommentVote
	}
	return p
}

type UpdatePreferencesRequest struct {
	BuildLike    *bool `json:"notify_on_build_like"`
	BuildComment *bool `json:"notify_on_build_comment"`
	CommentReply *bool `json:"notify_on_comment_reply"`
	CommentVote  *bool `json:"notify_on_comment_vote"`
}

type Notification struct {
	ID          int              `gorm:"primaryKey" json:"id"`
	RecipientID int              `gorm:"not null;index:idx_notifications_recipient_read" json:"recipient_id"`
	Recipient   *User            `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
	SenderID    int              `gorm:"not null" json:"sender_id"`
	Sender      *User            `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Type        NotificationType `gorm:"column:notification_type;type:varchar(20);not null" json:"notification_type"`
	BuildID     *int             `json:"build_id,omitempty"`
	Build       *Build           `gorm:"foreignKey:BuildID;constraint:OnDelete:CASCADE" json:"-"`
	CommentID   *int             `json:"comment_id,omitempty"`
	Comment     *Comment         `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	IsRead      bool             `gorm:"not null;index:idx_notifications_recipient_read" json:"is_read"`
	// DedupKey is the idempotency key for suppressed duplicates; NULL means
	// every insert is distinct.
	DedupKey  *string   `gorm:"uniqueIndex;size:128" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

type MarkReadRequest struct {
	IDs []int `json:"ids"`
}
