// Package service provides the session-oriented layer over the 2048
// reinforcement learning environment.
//
// GameService is the interface the transports talk to. SessionManager stores
// sessions, each holding its own rlenv.Environment seeded independently, and
// ConfigManager resolves configuration names to engine.GameConfig values.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic", 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Step(ctx, info.ID, "left")
//	fmt.Println(result.Reward, result.Done)
//
// Directions are accepted by name ("up", "right", "down", "left") or by
// their first letter. Steps after the episode is done are still applied; the
// environment simply keeps reporting done. A configuration with max_moves
// greater than zero caps the number of steps per episode.
package service
