// Package types contains common types used across the application
package types

// Entry represents a leaderboard row. The csv tags fix the report's column
// names and order.
type Entry struct {
	Place  int     `csv:"place" json:"place"`
	Name   string  `csv:"name" json:"name"`
	Rating float64 `csv:"rating" json:"rating"`
	Wins   uint32  `csv:"wins" json:"wins"`
	Losses uint32  `csv:"losses" json:"losses"`
	ID     string  `csv:"id" json:"id"`
}
