// Package model defines the intermediate representation shared by the
// recognizers and the MRZ locator.
//
// A recognizer produces a list of [TextLine] values, each carrying the text
// as read, an optional confidence and an optional [BBox] in image
// coordinates. Plain text input produces lines without positions:
//
//	lines := model.LinesFromText(text)
//
// # Geometry
//
// Geometric primitives use image space, with the origin at the top-left
// corner and Y growing downwards:
//
//   - [BBox] - bounding box with intersection, union and ordering helpers
//   - [Point] - 2D point with distance calculation
package model
