package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// ErrMoveLimitReached is returned by Step once a session used up the
// max_moves of its configuration
var ErrMoveLimitReached = errors.New("move limit reached")

// MaxSeed is the largest generated seed. Seeds up to 2^53-1 survive a round
// trip through a JSON number.
const MaxSeed = 1<<53 - 1

// NewSeed returns a clock-derived seed in [1, MaxSeed]
func NewSeed() int64 {
	if seed := time.Now().UnixNano() & MaxSeed; seed != 0 {
		return seed
	}
	return 1
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new environment session. A zero seed picks one
// from the clock; the chosen seed is reported back.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed int64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use list_configs to see available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	if seed == 0 {
		seed = NewSeed()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     strings.TrimSuffix(configID, ".json"),
		Seed:           session.Seed,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      snapshot(session),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information. It takes the write lock because
// touching the session updates LastAccessedAt.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Reset starts a new episode in a session
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	sess.Env.Reset()
	return snapshot(sess), nil
}

// Step applies one move to a session's environment
func (s *gameServiceImpl) Step(ctx context.Context, sessionID, direction string) (*StepResult, error) {
	d, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	// Update last accessed time
	s.sessions.UpdateLastAccessed(sessionID)

	limit := sess.Config.MaxMoves
	if limit > 0 && sess.Env.Moves() >= limit {
		return nil, fmt.Errorf("%w: %d moves", ErrMoveLimitReached, limit)
	}

	_, reward, done, info, err := sess.Env.Step(d)
	if err != nil {
		return nil, err
	}

	return &StepResult{
		Direction: d.String(),
		Reward:    reward,
		Done:      done,
		Truncated: limit > 0 && sess.Env.Moves() >= limit,
		Info:      info,
		GameState: snapshot(sess),
	}, nil
}

// NextStates lists every board a move can lead to without committing it
func (s *gameServiceImpl) NextStates(ctx context.Context, sessionID, direction string) (*LookaheadResult, error) {
	d, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	states, info, err := sess.Env.NextStates(d)
	if err != nil {
		return nil, err
	}

	return &LookaheadResult{
		Direction:     d.String(),
		UselessAction: info.UselessAction,
		Count:         len(states),
		States:        states,
	}, nil
}

// ActionReward previews the reward of a move without committing it
func (s *gameServiceImpl) ActionReward(ctx context.Context, sessionID, direction string) (*RewardResult, error) {
	d, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	reward, err := sess.Env.ActionReward(d)
	if err != nil {
		return nil, err
	}

	return &RewardResult{Direction: d.String(), Reward: reward}, nil
}

// GetGameState returns the current state of a session
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return snapshot(sess), nil
}

// ListConfigs returns all available configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a configuration
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name), // Return config_id consistently
		Seed:           sess.Seed,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      snapshot(sess),
		GameConfig:     sess.Config,
	}
}

func snapshot(sess *Session) *GameState {
	board := sess.Env.Board()
	return &GameState{
		Board:    board,
		Rendered: board.String(),
		Score:    sess.Env.Score(),
		Done:     sess.Env.Done(),
		Moves:    sess.Env.Moves(),
		MaxTile:  board.MaxTile(),
	}
}
