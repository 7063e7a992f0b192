package model

// RouteResponse is the body of a /route answer.
type RouteResponse struct {
	OK            bool     `json:"ok"`
	Path          []string `json:"path"`
	Total         int      `json:"total"`
	Stations      int      `json:"stations"`
	Summary       string   `json:"summary,omitempty"`
	Error         string   `json:"error,omitempty"`
	ExploredNodes int      `json:"explored_nodes"`
	CacheHit      bool     `json:"cache_hit"`
}

// NewRouteResponse flattens r into the wire shape.
func NewRouteResponse(r PathResult, explored int, cacheHit bool) RouteResponse {
	resp := RouteResponse{
		OK:            r.OK(),
		Path:          r.Path(),
		Total:         r.Cost(),
		Stations:      r.StationCount(),
		Error:         r.Err(),
		ExploredNodes: explored,
		CacheHit:      cacheHit,
	}
	if r.OK() {
		resp.Summary = r.Short()
	}
	return resp
}

type StationsResponse struct {
	Stations []string `json:"stations"`
	Epoch    uint64   `json:"epoch"`
}
