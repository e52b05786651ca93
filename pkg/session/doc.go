// Package session coordinates the mutable state of one photo booth visit.
//
// # Overview
//
// A [Session] owns the photo library, the slot assignment, the per-slot
// transforms and the selected frame. All mutation goes through its methods,
// which validate the request, commit the change atomically, bump the state
// version and notify the change callback with a consistent [Snapshot].
//
// The library is append-only: photos removed from a slot stay pickable from
// the gallery. The assignment is a gapless sequence no longer than the
// frame's slot count; slot i is empty exactly when i >= len(assignment).
// Transforms are stored in a slice parallel to the assignment and renumbered
// in the same operation, so the two can never disagree.
//
// # Recomposition
//
// [Recomposer] turns snapshots into rendered collages on a single background
// goroutine. Rapid changes such as drag panning are coalesced: only the
// newest pending snapshot is rendered, and a result is published only if its
// version is newer than the one already published.
//
//	rc := session.NewRecomposer(render, session.WithDebounce(30*time.Millisecond))
//	go rc.Run(ctx)
//	s := session.New(session.WithOnChange(rc.Submit))
//	...
//	res, err := rc.Wait(ctx, s.Snapshot().Version)
package session
