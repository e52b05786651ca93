// Package camera acquires photos from a capture device.
//
// # Devices
//
// A [Device] starts a live [Stream] of decoded frames. [HotFolder] is a
// device backed by a directory that a tethered camera or capture tool
// writes images into; each new image becomes the latest frame. [Memory] is
// an in-process device used by tests and demos.
//
// Acquisition failures are reported as [errors.CameraError] with a
// reason: no-device, permission-denied, device-busy, unsupported or
// unknown.
//
// # Capture
//
// [Capture] counts down 3, 5 or 10 seconds, reporting every remaining
// second, then takes one snapshot from the stream.
//
// # Controller
//
// [Controller] wraps a device for interactive front ends. Acquisition may
// stay pending indefinitely; [Controller.Cancel] invalidates a pending
// request so that a late stream is stopped and never surfaced, and
// [Controller.Retry] starts over.
//
// [errors.CameraError]: github.com/matzehuels/photobooth/pkg/errors.CameraError
package camera
