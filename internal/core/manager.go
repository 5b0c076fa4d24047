package core

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/hangrelay/internal/store"
)

// Options configures a Manager.
type Options struct {
	// Name identifies the manager in logs and in the activity log.
	Name string
	// Policy validates room keys on admission. Defaults to AnyRoom.
	Policy RoomPolicy
	// Notices renders system notices. Defaults to CommunityNotices.
	Notices Notices
	// Roster enables the members snapshot after every join and leave.
	Roster bool
	// ExcludeSender stops chat messages from echoing back to their sender.
	ExcludeSender bool
	// Activity records presence transitions. Defaults to store.Nop.
	Activity store.ActivityStore
}

// Manager owns the room registry and the presence table and drives the
// admission, relay and departure of connections.
type Manager struct {
	name          string
	rooms         *Registry
	presence      *Presence
	policy        RoomPolicy
	notices       Notices
	roster        bool
	excludeSender bool
	activity      store.ActivityStore
	log           *zerolog.Logger

	// admitMu makes the single-room check and the membership mutation one
	// step. Broadcasts do not take it.
	admitMu  sync.Mutex
	sessions map[*Session]struct{}
}

// NewManager builds a manager. A nil logger disables logging.
func NewManager(opts Options, logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if opts.Policy == nil {
		opts.Policy = AnyRoom{}
	}
	if opts.Notices == nil {
		opts.Notices = CommunityNotices{}
	}
	if opts.Activity == nil {
		opts.Activity = store.Nop{}
	}
	if opts.Name == "" {
		opts.Name = "default"
	}
	l := logger.With().Str("module", "core.manager").Str("scope", opts.Name).Logger()

	return &Manager{
		name:          opts.Name,
		rooms:         NewRegistry(&l),
		presence:      NewPresence(),
		policy:        opts.Policy,
		notices:       opts.Notices,
		roster:        opts.Roster,
		excludeSender: opts.ExcludeSender,
		activity:      opts.Activity,
		log:           &l,
		sessions:      make(map[*Session]struct{}),
	}
}

// Name returns the manager name.
func (m *Manager) Name() string { return m.name }

// Admit runs admission control for conn. On success the connection is a
// member of req.Room and the returned session is Active. On rejection the
// connection receives an error event and is closed; shared state is untouched.
func (m *Manager) Admit(ctx context.Context, conn Conn, req AdmitRequest) (*Session, error) {
	s := newSession(conn, req)

	if req.ClientID == "" {
		return nil, m.reject(ctx, s, coreError(ErrCodeBadRequest, "client id is required"))
	}
	if err := m.policy.Validate(req.Room); err != nil {
		return nil, m.reject(ctx, s, asCoreError(err))
	}

	m.admitMu.Lock()
	if current, ok := m.presence.Lookup(req.ClientID); ok && current != req.Room {
		m.admitMu.Unlock()
		return nil, m.reject(ctx, s, coreError(ErrCodeAlreadyActive, m.notices.AlreadyActive(s)))
	}
	s.JoinedAt = time.Now()
	s.transition(StatePending, StateActive)
	m.rooms.join(req.Room, conn, func(room *Room) {
		m.presence.Register(req.ClientID, req.Room, req.Name)
		m.rooms.publish(room, systemEvent(s.Room, m.notices.Joined(s)), nil)
		m.publishRoster(room)
	})
	m.sessions[s] = struct{}{}
	m.admitMu.Unlock()

	m.log.Info().
		Str("room", s.Room).
		Str("client_id", s.ClientID).
		Str("conn_id", conn.ID()).
		Msg("client joined")

	m.record(ctx, s, store.ActivityJoined, "")
	return s, nil
}

// Relay broadcasts text from an Active session to its room.
func (m *Manager) Relay(s *Session, text string) error {
	if s == nil || s.State() != StateActive {
		return ErrNotActive
	}

	ev := &Event{
		Kind: EventChat,
		Room: s.Room,
		Message: Message{
			Room:      s.Room,
			From:      s.ClientID,
			FromName:  s.Name,
			Text:      text,
			CreatedAt: time.Now(),
		},
	}

	var exclude Conn
	if m.excludeSender {
		exclude = s.Conn
	}
	m.rooms.Broadcast(s.Room, ev, exclude)
	return nil
}

// Depart removes an Active session from its room and notifies the remaining
// members. Calls after the first are no-ops.
func (m *Manager) Depart(ctx context.Context, s *Session) {
	if s == nil || !s.transition(StateActive, StateClosed) {
		return
	}

	m.admitMu.Lock()
	m.rooms.leave(s.Room, s.Conn, func(room *Room) {
		m.presence.Unregister(s.ClientID, s.Room)
		// The last member takes the room with it; nobody is left to notify.
		if room == nil || room.empty() {
			return
		}
		m.rooms.publish(room, systemEvent(s.Room, m.notices.Left(s)), nil)
		m.publishRoster(room)
	})
	delete(m.sessions, s)
	m.admitMu.Unlock()

	m.log.Info().
		Str("room", s.Room).
		Str("client_id", s.ClientID).
		Str("conn_id", s.Conn.ID()).
		Msg("client left")

	m.record(ctx, s, store.ActivityLeft, "")
}

// Rooms lists live rooms with their member counts.
func (m *Manager) Rooms() []RoomInfo {
	return m.rooms.List()
}

// Roster returns the client id -> display name mapping of a live room.
func (m *Manager) Roster(room string) (map[string]string, bool) {
	if !m.rooms.Has(room) {
		return nil, false
	}
	return m.presence.MembersOf(room), true
}

// Close closes every active connection. Each listener then observes the
// disconnect and calls Depart as usual.
func (m *Manager) Close(reason string) {
	m.admitMu.Lock()
	conns := make([]Conn, 0, len(m.sessions))
	for s := range m.sessions {
		conns = append(conns, s.Conn)
	}
	m.admitMu.Unlock()

	for _, c := range conns {
		c.Close(reason)
	}
	m.log.Info().Int("closed", len(conns)).Msg("closed active connections")
}

// publishRoster pushes the room roster when enabled. Caller holds room.mu,
// so the snapshot reflects every membership change applied before it.
func (m *Manager) publishRoster(room *Room) {
	if !m.roster {
		return
	}
	m.rooms.publish(room, &Event{Kind: EventMembers, Room: room.Name, Members: m.presence.MembersOf(room.Name)}, nil)
}

func (m *Manager) reject(ctx context.Context, s *Session, cerr *CoreError) error {
	s.transition(StatePending, StateClosed)

	if err := s.Conn.Send(errorEvent(s.Room, cerr)); err != nil {
		m.log.Warn().Err(err).Str("conn_id", s.Conn.ID()).Msg("failed to deliver rejection")
	}
	s.Conn.Close(cerr.Message)

	m.log.Info().
		Str("room", s.Room).
		Str("client_id", s.ClientID).
		Str("code", cerr.Code).
		Msg("admission rejected")
	m.record(ctx, s, store.ActivityRejected, cerr.Code)
	return cerr
}

func (m *Manager) record(ctx context.Context, s *Session, kind store.ActivityKind, reason string) {
	err := m.activity.RecordActivity(ctx, &store.Activity{
		Scope:    m.name,
		Room:     s.Room,
		ClientID: s.ClientID,
		Name:     s.Name,
		Kind:     kind,
		Reason:   reason,
	})
	if err != nil {
		m.log.Warn().Err(err).Str("kind", string(kind)).Msg("failed to record activity")
	}
}
