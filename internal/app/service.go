package app

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"tilerummy/internal/config"
	"tilerummy/internal/domain"
	"tilerummy/internal/ports"
)

// Service contains the room and game use-cases. Every mutating call is one
// load → guard → mutate → save round-trip; concurrency safety comes from the
// repository's version token plus the game's revision counter.
type Service struct {
	repo     ports.RoomRepository
	notifier ports.Notifier
	rng      *rand.Rand
	now      func() time.Time
}

// NewService constructs a Service. rng may be nil to use a time-seeded
// default; now may be nil to use time.Now.
func NewService(repo ports.RoomRepository, notifier ports.Notifier, rng *rand.Rand, now func() time.Time) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, notifier: notifier, rng: rng, now: now}
}

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrGameNotInProgress = errors.New("game not in progress")
	ErrGameInProgress    = errors.New("game already in progress")
	ErrNotHost           = errors.New("actor is not room host")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrIsYourTurn        = errors.New("cannot queue a turn while it is your turn")
	ErrUnknownPlayer     = errors.New("player not found")
	ErrInvalidPlayerCode = errors.New("invalid player code")
	ErrTooFewPlayers     = errors.New("not enough players to start")
	ErrRevisionConflict  = errors.New("game state changed, reload and retry")
	ErrTileMismatch      = errors.New("played tiles do not match table and hand")
)

const maxCodeAttempts = 16

// CreateRoom opens a new room with the given player as host. playerID may be
// empty for guests; an opaque id is generated.
func (s *Service) CreateRoom(ctx context.Context, playerID, name, email, styleID string) (*domain.Room, *domain.Player, error) {
	code, err := s.uniqueRoomCode(ctx)
	if err != nil {
		return nil, nil, err
	}

	host := s.newPlayer(playerID, name, email, true)
	room := &domain.Room{
		Code:      code,
		CreatedAt: s.now(),
		StyleID:   styleID,
		Game: &domain.GameState{
			Phase:   domain.PhaseLobby,
			Players: []*domain.Player{host},
		},
	}

	if _, err := s.save(ctx, room, ""); err != nil {
		return nil, nil, err
	}
	return room, host, nil
}

// JoinRoom adds a player to a lobby-phase room.
func (s *Service) JoinRoom(ctx context.Context, code, playerID, name, email string) (*domain.Room, *domain.Player, []Event, error) {
	room, version, err := s.loadRoom(ctx, code)
	if err != nil {
		return nil, nil, nil, err
	}

	if existing := room.Game.FindPlayer(playerID); playerID != "" && existing != nil {
		existing.IsConnected = true
		if _, err := s.save(ctx, room, version); err != nil {
			return nil, nil, nil, err
		}
		return room, existing, []Event{{Kind: EventPlayerRejoined, Payload: PlayerJoinedPayload{PlayerID: existing.ID, Name: existing.Name}}}, nil
	}

	if room.Game.Phase != domain.PhaseLobby {
		return nil, nil, nil, ErrGameInProgress
	}
	if len(room.Game.Players) >= config.GetGameConfig().MaxPlayers {
		return nil, nil, nil, ErrRoomFull
	}

	player := s.newPlayer(playerID, name, email, false)
	room.Game.Players = append(room.Game.Players, player)

	if _, err := s.save(ctx, room, version); err != nil {
		return nil, nil, nil, err
	}
	events := []Event{{Kind: EventPlayerJoined, Payload: PlayerJoinedPayload{PlayerID: player.ID, Name: player.Name}}}
	return room, player, events, nil
}

// Rejoin re-authenticates a player onto any device using their 6-character
// player code and marks them connected.
func (s *Service) Rejoin(ctx context.Context, code, playerCode string) (*domain.Room, *domain.Player, []Event, error) {
	room, version, err := s.loadRoom(ctx, code)
	if err != nil {
		return nil, nil, nil, err
	}

	player := room.Game.FindPlayerByCode(playerCode)
	if player == nil {
		return nil, nil, nil, ErrInvalidPlayerCode
	}

	player.IsConnected = true
	if _, err := s.save(ctx, room, version); err != nil {
		return nil, nil, nil, err
	}
	events := []Event{{Kind: EventPlayerRejoined, Payload: PlayerJoinedPayload{PlayerID: player.ID, Name: player.Name}}}
	return room, player, events, nil
}

// Disconnect marks a player offline. If it was their turn, the in-progress
// rearrangement is reverted and the turn passes on; queued turns of the next
// players reconcile as usual.
func (s *Service) Disconnect(ctx context.Context, code, playerID string) ([]Event, error) {
	room, version, err := s.loadRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	player := room.Game.FindPlayer(playerID)
	if player == nil {
		return nil, ErrUnknownPlayer
	}
	player.IsConnected = false
	events := []Event{{Kind: EventPlayerDisconnected, Payload: PlayerLeftPayload{PlayerID: player.ID}}}

	game := room.Game
	if game.Phase == domain.PhasePlaying && game.CurrentPlayer() == player && game.ConnectedCount() > 0 {
		domain.RevertToTurnStart(game)
		game.Revision++
		events = append(events, s.advanceAndReconcile(ctx, room)...)
	}

	if _, err := s.save(ctx, room, version); err != nil {
		return nil, err
	}
	return events, nil
}

// LeaveRoom removes a player from a lobby, or marks them disconnected during
// a game. The last player out deletes the room; a departing host hands the
// room to the next player.
func (s *Service) LeaveRoom(ctx context.Context, code, playerID string) ([]Event, error) {
	room, version, err := s.loadRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	game := room.Game
	player := game.FindPlayer(playerID)
	if player == nil {
		return nil, ErrUnknownPlayer
	}

	if game.Phase != domain.PhaseLobby {
		return s.Disconnect(ctx, code, playerID)
	}

	for i, p := range game.Players {
		if p.ID == playerID {
			game.Players = append(game.Players[:i], game.Players[i+1:]...)
			break
		}
	}
	if len(game.Players) == 0 {
		if err := s.repo.Delete(ctx, code); err != nil {
			return nil, err
		}
		return []Event{{Kind: EventPlayerLeft, Payload: PlayerLeftPayload{PlayerID: playerID}}}, nil
	}

	payload := PlayerLeftPayload{PlayerID: playerID}
	if game.HostPlayer() == nil {
		game.Players[0].IsHost = true
		payload.NewHostID = game.Players[0].ID
	}

	if _, err := s.save(ctx, room, version); err != nil {
		return nil, err
	}
	return []Event{{Kind: EventPlayerLeft, Payload: payload}}, nil
}

// SetRoomStyle changes the room's cosmetic style. Host only.
func (s *Service) SetRoomStyle(ctx context.Context, code, playerID, styleID string) ([]Event, error) {
	room, version, err := s.loadRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	player := room.Game.FindPlayer(playerID)
	if player == nil {
		return nil, ErrUnknownPlayer
	}
	if !player.IsHost {
		return nil, ErrNotHost
	}

	room.StyleID = styleID
	if _, err := s.save(ctx, room, version); err != nil {
		return nil, err
	}
	return []Event{{Kind: EventRoomStyleChanged, Payload: RoomStyleChangedPayload{StyleID: styleID}}}, nil
}

// StartGame deals a new game. Host only, lobby only, at least two players.
// Rules come from the player-count tier table.
func (s *Service) StartGame(ctx context.Context, code, playerID string) (*domain.Room, []Event, error) {
	room, version, err := s.loadRoom(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	game := room.Game

	player := game.FindPlayer(playerID)
	if player == nil {
		return nil, nil, ErrUnknownPlayer
	}
	if !player.IsHost {
		return nil, nil, ErrNotHost
	}
	if game.Phase != domain.PhaseLobby {
		return nil, nil, ErrGameInProgress
	}
	if len(game.Players) < MinPlayersToStartGame {
		return nil, nil, ErrTooFewPlayers
	}

	game.Rules = config.RulesForPlayerCount(len(game.Players))
	domain.InitializeGame(game, s.rng)
	domain.SnapshotTurnStart(game)
	game.Revision++

	if _, err := s.save(ctx, room, version); err != nil {
		return nil, nil, err
	}

	events := []Event{{Kind: EventGameStarted, Payload: GameStartedPayload{
		Rules:         game.Rules,
		FirstPlayerID: game.CurrentPlayer().ID,
	}}}
	for _, p := range game.Players {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{PlayerID: p.ID, Hand: domain.CloneTiles(p.Hand)},
			Recipients: []string{p.ID},
		})
	}
	return room, events, nil
}

// PlayTiles replaces the acting player's in-progress arrangement wholesale:
// the table melds, the player's hand and the working area. Nothing commits
// until the turn ends, but the rearrangement is persisted so every client
// renders the same table.
func (s *Service) PlayTiles(ctx context.Context, code, playerID string, melds []domain.Meld, hand, workingArea []domain.Tile, expectedRevision int64) (*domain.Room, []Event, error) {
	room, version, game, err := s.loadTurn(ctx, code, playerID, expectedRevision)
	if err != nil {
		return nil, nil, err
	}

	melds = normalizeMelds(melds)
	hand = normalizeTiles(hand)
	workingArea = normalizeTiles(workingArea)

	if !tilesConserved(game, hand, melds, workingArea) {
		return nil, nil, ErrTileMismatch
	}

	game.CurrentPlayer().Hand = hand
	game.Melds = melds
	game.WorkingArea = workingArea
	game.Revision++

	if _, err := s.save(ctx, room, version); err != nil {
		return nil, nil, err
	}
	return room, []Event{{Kind: EventTableUpdated, Payload: TableUpdatedPayload{PlayerID: playerID, Revision: game.Revision}}}, nil
}

// EndTurn commits the acting player's turn. A failed validation returns the
// check with the game untouched; on success the turn advances to the next
// connected player, whose queued turn (if any) reconciles immediately.
func (s *Service) EndTurn(ctx context.Context, code, playerID string, expectedRevision int64) (*domain.Room, domain.TurnCheck, []Event, error) {
	room, version, game, err := s.loadTurn(ctx, code, playerID, expectedRevision)
	if err != nil {
		return nil, domain.TurnCheck{}, nil, err
	}

	player := game.CurrentPlayer()
	check := domain.CanEndTurn(player, game.Melds, game.TurnStartHand, game.TurnStartMelds, game.WorkingArea, game.Rules)
	if !check.Valid {
		return room, check, nil, nil
	}

	events := s.commitTurn(ctx, room)
	if _, err := s.save(ctx, room, version); err != nil {
		return nil, domain.TurnCheck{}, nil, err
	}
	return room, check, events, nil
}

// DrawAndPass abandons the current rearrangement, draws one tile and passes
// the turn. Drawing always ends the turn; an exhausted pool simply passes.
func (s *Service) DrawAndPass(ctx context.Context, code, playerID string, expectedRevision int64) (*domain.Room, []Event, error) {
	room, version, game, err := s.loadTurn(ctx, code, playerID, expectedRevision)
	if err != nil {
		return nil, nil, err
	}

	domain.RevertToTurnStart(game)
	var events []Event
	if tile, ok := domain.DrawTile(game); ok {
		player := game.CurrentPlayer()
		player.Hand = append(player.Hand, tile)
		events = append(events, Event{
			Kind:       EventTileDrawn,
			Payload:    TileDrawnPayload{PlayerID: playerID, Tile: tile, PoolLeft: len(game.TilePool)},
			Recipients: []string{playerID},
		})
	}
	game.Revision++
	events = append(events, s.advanceAndReconcile(ctx, room)...)

	if _, err := s.save(ctx, room, version); err != nil {
		return nil, nil, err
	}
	return room, events, nil
}

// ResetTurn reverts the acting player's rearrangement without passing the
// turn.
func (s *Service) ResetTurn(ctx context.Context, code, playerID string, expectedRevision int64) (*domain.Room, []Event, error) {
	room, version, game, err := s.loadTurn(ctx, code, playerID, expectedRevision)
	if err != nil {
		return nil, nil, err
	}

	domain.RevertToTurnStart(game)
	game.Revision++

	if _, err := s.save(ctx, room, version); err != nil {
		return nil, nil, err
	}
	return room, []Event{{Kind: EventTurnReset, Payload: TableUpdatedPayload{PlayerID: playerID, Revision: game.Revision}}}, nil
}

// QueueTurn stages a full turn for a player whose turn has not yet arrived,
// tagged with the current revision and a snapshot of the table it was planned
// against.
func (s *Service) QueueTurn(ctx context.Context, code, playerID string, melds []domain.Meld, hand, workingArea []domain.Tile) (*domain.Room, []Event, error) {
	room, version, err := s.loadRoom(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	game := room.Game
	if game.Phase != domain.PhasePlaying {
		return nil, nil, ErrGameNotInProgress
	}
	player := game.FindPlayer(playerID)
	if player == nil {
		return nil, nil, ErrUnknownPlayer
	}
	if game.CurrentPlayer() == player {
		return nil, nil, ErrIsYourTurn
	}

	player.QueuedTurn = &domain.QueuedTurn{
		PlannedMelds:       normalizeMelds(melds),
		PlannedHand:        normalizeTiles(hand),
		PlannedWorkingArea: normalizeTiles(workingArea),
		BaseMelds:          domain.CloneMelds(game.Melds),
		BaseRevision:       game.Revision,
		QueuedAt:           s.now(),
	}

	if _, err := s.save(ctx, room, version); err != nil {
		return nil, nil, err
	}
	return room, []Event{{Kind: EventQueuedTurnSet, Payload: TurnAdvancedPayload{PlayerID: playerID, Revision: game.Revision}}}, nil
}

// ClearQueuedTurn drops a staged turn without touching the board.
func (s *Service) ClearQueuedTurn(ctx context.Context, code, playerID string) (*domain.Room, []Event, error) {
	room, version, err := s.loadRoom(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	player := room.Game.FindPlayer(playerID)
	if player == nil {
		return nil, nil, ErrUnknownPlayer
	}

	player.QueuedTurn = nil
	if _, err := s.save(ctx, room, version); err != nil {
		return nil, nil, err
	}
	return room, []Event{{Kind: EventQueuedTurnCleared, Payload: TurnAdvancedPayload{PlayerID: playerID}}}, nil
}

// EndGame aborts a running game back to the lobby for a new round. Host only.
func (s *Service) EndGame(ctx context.Context, code, playerID string) (*domain.Room, []Event, error) {
	room, version, err := s.loadRoom(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	game := room.Game
	player := game.FindPlayer(playerID)
	if player == nil {
		return nil, nil, ErrUnknownPlayer
	}
	if !player.IsHost {
		return nil, nil, ErrNotHost
	}
	if game.Phase == domain.PhaseLobby {
		return nil, nil, ErrGameNotInProgress
	}

	domain.ResetToLobby(game)
	game.Revision++

	if _, err := s.save(ctx, room, version); err != nil {
		return nil, nil, err
	}
	return room, []Event{{Kind: EventGameAborted}}, nil
}

// commitTurn finalizes a validated end-of-turn: first-meld flag, win check,
// then turn advance with queued-turn reconciliation.
func (s *Service) commitTurn(ctx context.Context, room *domain.Room) []Event {
	game := room.Game
	player := game.CurrentPlayer()
	player.HasInitialMeld = true
	game.Revision++

	if domain.CheckGameEnd(game) {
		return s.gameEndedEvents(ctx, room)
	}
	return s.advanceAndReconcile(ctx, room)
}

// advanceAndReconcile moves the turn to the next connected player and plays
// out any queued turns, chaining while auto-applied turns keep ending.
func (s *Service) advanceAndReconcile(ctx context.Context, room *domain.Room) []Event {
	game := room.Game
	var events []Event
	for range game.Players {
		domain.NextPlayer(game)
		domain.SnapshotTurnStart(game)
		game.WorkingArea = nil

		current := game.CurrentPlayer()
		events = append(events, Event{Kind: EventTurnAdvanced, Payload: TurnAdvancedPayload{PlayerID: current.ID, Revision: game.Revision}})

		if current.QueuedTurn == nil {
			return events
		}
		outcome := s.reconcileQueuedTurn(ctx, room)
		events = append(events, outcome.Events...)
		if !outcome.Applied {
			return events
		}
		if game.Phase == domain.PhaseEnded {
			events = append(events, s.gameEndedEvents(ctx, room)...)
			return events
		}
	}
	return events
}

func (s *Service) gameEndedEvents(ctx context.Context, room *domain.Room) []Event {
	game := room.Game
	notice := ports.GameEndNotice{RoomCode: room.Code, WinnerID: game.WinnerID}
	for _, p := range game.Players {
		if p.ID == game.WinnerID {
			notice.WinnerName = p.Name
		}
		notice.Standings = append(notice.Standings, ports.Standing{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			HandPoints: domain.HandPoints(p.Hand),
		})
	}
	if s.notifier != nil {
		// Delivery is best-effort; a failed notification never rolls back play.
		_ = s.notifier.GameEnded(ctx, notice)
	}
	return []Event{{Kind: EventGameEnded, Payload: GameEndedPayload{WinnerID: game.WinnerID, Standings: notice.Standings}}}
}

// GetRoom returns the current room state without mutating it.
func (s *Service) GetRoom(ctx context.Context, code string) (*domain.Room, error) {
	room, _, err := s.loadRoom(ctx, code)
	return room, err
}

// save persists the room, stamping its last-activity time.
func (s *Service) save(ctx context.Context, room *domain.Room, version string) (string, error) {
	room.LastActivity = s.now()
	return s.repo.Save(ctx, room, version)
}

// loadRoom loads a room or reports ErrRoomNotFound. Rooms idle past the
// configured TTL with nobody connected are reaped on first touch.
func (s *Service) loadRoom(ctx context.Context, code string) (*domain.Room, string, error) {
	room, version, err := s.repo.Load(ctx, code)
	if err != nil {
		return nil, "", err
	}
	if room == nil || room.Game == nil {
		return nil, "", ErrRoomNotFound
	}
	if s.roomExpired(room) {
		if err := s.repo.Delete(ctx, code); err != nil {
			return nil, "", err
		}
		return nil, "", ErrRoomNotFound
	}
	return room, version, nil
}

func (s *Service) roomExpired(room *domain.Room) bool {
	if room.Game.ConnectedCount() > 0 {
		return false
	}
	ttl := time.Duration(config.GetGameConfig().RoomTTLHours) * time.Hour
	last := room.LastActivity
	if last.IsZero() {
		last = room.CreatedAt
	}
	return s.now().Sub(last) > ttl
}

// loadTurn loads a room and guards the common turn preconditions: game in
// progress, acting player on turn, revision as expected.
func (s *Service) loadTurn(ctx context.Context, code, playerID string, expectedRevision int64) (*domain.Room, string, *domain.GameState, error) {
	room, version, err := s.loadRoom(ctx, code)
	if err != nil {
		return nil, "", nil, err
	}
	game := room.Game
	if game.Phase != domain.PhasePlaying {
		return nil, "", nil, ErrGameNotInProgress
	}
	player := game.FindPlayer(playerID)
	if player == nil {
		return nil, "", nil, ErrUnknownPlayer
	}
	if game.CurrentPlayer() != player {
		return nil, "", nil, ErrNotYourTurn
	}
	if expectedRevision >= 0 && expectedRevision != game.Revision {
		return nil, "", nil, ErrRevisionConflict
	}
	return room, version, game, nil
}

func (s *Service) uniqueRoomCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := newRoomCode(s.rng)
		existing, _, err := s.repo.Load(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", errors.New("could not allocate a unique room code")
}

func (s *Service) newPlayer(playerID, name, email string, isHost bool) *domain.Player {
	if playerID == "" {
		playerID = uuid.NewString()
	}
	return &domain.Player{
		ID:          playerID,
		Name:        name,
		Email:       email,
		IsHost:      isHost,
		IsConnected: true,
		PlayerCode:  newPlayerCode(s.rng),
	}
}

// normalizeTiles strips ephemeral joker assignments before tiles are stored;
// assignments are recomputed on the read side.
func normalizeTiles(tiles []domain.Tile) []domain.Tile {
	out := domain.CloneTiles(tiles)
	for i := range out {
		if out[i].IsJoker {
			out[i].AssignedNumber = 0
			out[i].AssignedColor = ""
		}
	}
	return out
}

func normalizeMelds(melds []domain.Meld) []domain.Meld {
	out := domain.CloneMelds(melds)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
		out[i].Tiles = normalizeTiles(out[i].Tiles)
	}
	return out
}

// tilesConserved checks that the proposed arrangement uses exactly the tiles
// the player started the turn with: turn-start hand plus turn-start table.
func tilesConserved(game *domain.GameState, hand []domain.Tile, melds []domain.Meld, workingArea []domain.Tile) bool {
	want := map[string]bool{}
	for _, t := range game.TurnStartHand {
		want[t.ID] = true
	}
	for _, m := range game.TurnStartMelds {
		for _, t := range m.Tiles {
			want[t.ID] = true
		}
	}

	count := 0
	seen := map[string]bool{}
	check := func(t domain.Tile) bool {
		if !want[t.ID] || seen[t.ID] {
			return false
		}
		seen[t.ID] = true
		count++
		return true
	}
	for _, t := range hand {
		if !check(t) {
			return false
		}
	}
	for _, m := range melds {
		for _, t := range m.Tiles {
			if !check(t) {
				return false
			}
		}
	}
	for _, t := range workingArea {
		if !check(t) {
			return false
		}
	}
	return count == len(want)
}
