package crawler

// Page is one page of a thread as returned by the NGA read API.
type Page struct {
	TID         uint64 `json:"-"`
	Title       string `json:"tsubject"`
	AuthorName  string `json:"tauthor"`
	AuthorUID   uint64 `json:"tauthorid"`
	TotalPosts  uint64 `json:"vrows"`
	TotalPages  uint64 `json:"totalPage"`
	CurrentPage uint64 `json:"-"`
	Posts       []Post `json:"result"`
}

type Post struct {
	TID           uint64 `json:"tid"`
	PID           uint64 `json:"pid"`
	Content       string `json:"content"`
	PostDate      string `json:"postdate"`
	PostTimestamp int64  `json:"postdatetimestamp"`
	// PostNumber is the monotonically increasing sequence number within the
	// thread ("lou"), the watermark unit.
	PostNumber  uint64 `json:"lou"`
	Page        uint64 `json:"-"`
	ThreadTitle string `json:"-"`
	Author      Author `json:"author"`
}

type Author struct {
	Name string `json:"username"`
	UID  uint64 `json:"uid"`
}
