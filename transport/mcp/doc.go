// Package mcp exposes 2048 environment sessions as Model Context Protocol
// tools over stdio.
//
// The server wraps a service.GameService. Agents create a session, read the
// board with game_state, preview moves with next_states and action_reward,
// and commit moves with step:
//
//	srv := mcp.NewServer(gameService)
//	if err := srv.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
//
// Tool errors (unknown session, invalid direction, move limit) are returned
// as error results rather than protocol errors, so the agent can read them.
package mcp
