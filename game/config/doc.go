// Package config loads 2048 game configurations by name.
//
// Configurations are JSON documents decoded into engine.GameConfig:
//
//	{
//	  "name": "classic",
//	  "description": "Classic 4x4 board with two starting tiles",
//	  "board_size": 4,
//	  "initial_tiles": 2,
//	  "max_moves": 0,
//	  "messages": {"no_op": "...", "game_over": "Game over! Score: %d"}
//	}
//
// A small set of built-in configurations (classic, mini, large, huge) is
// embedded in the binary. When the Manager is given a directory, files there
// are listed alongside the built-ins and shadow any built-in of the same name.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("mini")
//	configs, err := manager.ListConfigs()
//
// Loaded configurations are cached; RefreshCache drops the cache.
package config
