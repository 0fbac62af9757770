package dto

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	Store     string  `json:"store"`
	Realtime  string  `json:"realtime"`
	Version   string  `json:"version"`
}

type StatsResponse struct {
	Users       int64   `json:"users"`
	Songs       int64   `json:"songs"`
	Playlists   int64   `json:"playlists"`
	Rooms       int64   `json:"rooms"`
	Connections int     `json:"connections"`
	Uptime      float64 `json:"uptime"`
	Timestamp   string  `json:"timestamp"`
}
