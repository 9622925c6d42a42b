package dto

type LikeResponse struct {
	TrackID   string `json:"track_id"`
	Liked     bool   `json:"liked"`
	LikeCount int64  `json:"like_count"`
}

type LikeStatusResponse struct {
	TrackID string `json:"track_id"`
	Liked   bool   `json:"liked"`
}
