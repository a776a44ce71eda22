// Package model defines the point types shared by the ballmap packages.
//
// # Identity Types
//
//   - PointID: caller-assigned identifier of a feature vector (uint32), unique within one computation
//
// # Data Types
//
//   - Point: a PointID paired with its feature vector
//
// PointIDs are not globally unique: the same id may name different features in different layers.
// They are uint32 so that covered-point sets can be stored as Roaring bitmaps.
package model
