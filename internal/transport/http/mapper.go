package http

import (
	"github.com/vovakirdan/hangrelay/internal/core"
	"github.com/vovakirdan/hangrelay/internal/proto"
)

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventSystem:
		return proto.Outbound{
			Type:    proto.OutboundTypeSystem,
			Room:    event.Room,
			Content: event.Text,
		}
	case core.EventChat:
		return proto.Outbound{
			Type:       proto.OutboundTypeChat,
			Room:       event.Message.Room,
			Content:    event.Message.Text,
			SenderID:   event.Message.From,
			SenderName: event.Message.FromName,
			TS:         event.Message.CreatedAt.Unix(),
		}
	case core.EventMembers:
		members := make(map[string]string, len(event.Members))
		for id, name := range event.Members {
			members[id] = name
		}
		return proto.Outbound{
			Type:    proto.OutboundTypeMembers,
			Room:    event.Room,
			Members: members,
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Code: "unknown", Content: "unknown error"}
		}
		return proto.Outbound{
			Type:    proto.OutboundTypeError,
			Room:    event.Room,
			Code:    event.Error.Code,
			Content: event.Error.Message,
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeSystem, Room: event.Room}
	}
}
