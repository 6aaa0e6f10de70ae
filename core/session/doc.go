// Package session holds the client's identity state and keeps it consistent
// across processes sharing one durable record.
//
// The durable record is a small JSON file under the user config directory;
// it is the source of truth. Store caches it in memory and is the single
// owner of all reads and writes, which is where the package's one invariant
// lives: a session is either fully absent or fully populated, never a
// partially written identity. A record that fails to parse is erased and
// reported as absent.
//
// # Lifecycle
//
//	store, err := session.New("", session.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//
//	// Login or registration succeeded:
//	_ = store.Set(session.Identity{Username: "alice", Credential: token})
//
//	// Hot path, no I/O:
//	if store.Current().Present() { ... }
//
//	// Logout or credential expiry:
//	_ = store.Clear()
//
// Every Set and Clear notifies subscribers synchronously, after the cache
// already reflects the new value. A subscriber reading Current inside its
// callback therefore never sees a stale session.
//
// # Cross-process propagation
//
// Other processes observe changes through a Watcher, which re-hydrates the
// store when the record changes on disk:
//
//	w, err := session.NewWatcher(store)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	go w.Run(ctx)
//
// Concurrent writes from two processes resolve to whichever write reaches
// the file last. That is accepted for a single-user profile: anything gated
// on the session is re-checked at the moment of mutation anyway.
package session
