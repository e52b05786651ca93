// Package compose renders a frame and its slot contents into a collage.
//
// # Overview
//
// Rendering happens in two steps. [NewPlan] turns a frame, a canvas size and
// the ordered slot contents into a flat list of drawing operations: one
// [OpPhoto] or [OpPlaceholder] per slot followed by one [OpDivider] per
// internal boundary. [Compositor.Rasterize] then draws a plan onto a white
// raster surface.
//
// Photos are placed with [transform.Place] and drawn through a clip to their
// slot rectangle, so a zoomed or panned photo never bleeds into a neighbor.
// Empty slots get a light grey fill with a centered "+" marker.
//
//	c := compose.New()
//	img, err := c.Render(ctx, def, 600, 900, []compose.Slot{
//	    {Photo: a, Transform: transform.Default()},
//	    {},
//	})
//
// The compositor assumes every photo is fully decoded and never blocks.
//
// [transform.Place]: github.com/matzehuels/photobooth/pkg/transform.Place
package compose
