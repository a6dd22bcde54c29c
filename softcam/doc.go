// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package softcam is a software camera for portal rendering built on gg.
//
// It implements the engine capabilities the portal renderer drives:
//
//   - Camera: portal.Camera and portal.DepthNormalsFormatter
//   - Material: portal.Material, sampled in screen space
//   - EdgeDetect and Fog: portal.PostEffect
//   - Globals: portal.Globals
//
// # Rendering
//
// A Scene is a list of flat quads plus the portals of a registry. Each pass
// projects every polygon with the camera's view-projection matrix, clips it
// against the (possibly oblique) near plane with portal.ClipNear, sorts the
// polygons back to front and fills them with a gg.Context.
//
// The color pass fills portals with their default color and then copies the
// assigned color texture into every pixel the portal covers. A portal
// texture is rendered from the portal camera's point of view at the same
// resolution as the screen, so the lookup is 1:1 in screen space.
//
// The depth-normals pass writes the view-space normal in R and G and the
// linear depth in B. The portal mask pass writes a per-portal id, see
// DecodeMask.
//
// # Usage
//
//	scene := &softcam.Scene{Background: gg.RGB(0.1, 0.1, 0.15)}
//	scene.AddQuad(softcam.Floor(mgl64.Vec3{}, 20, 20, gg.RGB(0.3, 0.3, 0.3)))
//	scene.AddPortal(a, b)
//
//	mainCam := softcam.NewCamera(scene, softcam.DefaultLens())
//	portalCam := softcam.NewCamera(scene, softcam.DefaultLens())
//	r, err := portal.NewRenderer(reg, pool, mainCam, portalCam)
package softcam
