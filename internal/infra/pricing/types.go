package pricing

// histodayResponse is the shape of the historical daily price endpoint.
// Only the closing prices are consumed; Data[1] holds the previous day.
type histodayResponse struct {
	Response string `json:"Response"`
	Data     []struct {
		Time  int64   `json:"time"`
		Close float64 `json:"close"`
	} `json:"Data"`
}
