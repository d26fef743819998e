// Package session keeps 2048 environment sessions in memory.
//
// Each session owns an rlenv.Environment built from a game configuration and
// seeded with its own random source, so two sessions created with the same
// configuration and seed replay identically. Sessions live only as long as
// the process; nothing is written to disk.
//
// Session IDs are 4 hex characters when generated, and lookups are
// case-insensitive. The Manager is safe for concurrent use; the environments
// it hands out are not, so callers serialize access to a single session.
//
// Usage:
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", engine.DefaultConfig(), 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//	_, reward, done, _, err := sess.Env.Step(engine.Left)
//
// CleanupExpiredSessions drops sessions that were not accessed recently.
package session
