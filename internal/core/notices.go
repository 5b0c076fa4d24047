package core

import "fmt"

// Notices renders the text of system notices and rejections.
type Notices interface {
	Joined(s *Session) string
	Left(s *Session) string
	AlreadyActive(s *Session) string
}

// CommunityNotices names clients by identifier.
type CommunityNotices struct{}

func (CommunityNotices) Joined(s *Session) string {
	return fmt.Sprintf("User #%s joined %s", s.ClientID, s.Room)
}

func (CommunityNotices) Left(s *Session) string {
	return fmt.Sprintf("User #%s left %s", s.ClientID, s.Room)
}

func (CommunityNotices) AlreadyActive(*Session) string {
	return "You are already active in another community!"
}

// WorkNotices names clients by display name and rooms by context label.
type WorkNotices struct {
	Policy *ContextPolicy
}

func (n WorkNotices) Joined(s *Session) string {
	label := s.Room
	if n.Policy != nil {
		if c, ok := n.Policy.ContextOf(s.Room); ok {
			label = c.Label
		}
	}
	return fmt.Sprintf("%s joined the %s workspace", s.Name, label)
}

func (WorkNotices) Left(s *Session) string {
	return fmt.Sprintf("%s left the workspace", s.Name)
}

func (WorkNotices) AlreadyActive(*Session) string {
	return "You are already active in another workspace!"
}
