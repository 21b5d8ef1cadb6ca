package web

import (
	"context"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
)

type LeaderboardRow struct {
	Rank     int
	Username string
	Rounds   []int
	Total    int
}

type StatusData struct {
	Subreddit   string
	RoundNumber int
	Title       string
	State       string
	Flair       string
	CurrentOp   string
	PostedAt    time.Time
	UpdatedAt   time.Time
	Leaderboard []LeaderboardRow
}

// Status renders the read-only dashboard page.
func Status(data StatusData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>PictureGame Bot</title>
    <style>
      body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 48rem; color: #1a1a1a; }
      h1 { font-size: 1.4rem; }
      table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
      th, td { text-align: left; padding: 0.35rem 0.6rem; border-bottom: 1px solid #ddd; }
      .meta { color: #555; }
      .state { text-transform: uppercase; font-weight: 600; }
    </style>
  </head>
  <body>
    <h1>/r/` + html.EscapeString(data.Subreddit) + ` bot status</h1>
`)
		if data.RoundNumber > 0 {
			b.WriteString(`    <p><span class="state">` + html.EscapeString(data.State) + `</span> &mdash; ` +
				html.EscapeString(data.Title) + `</p>
`)
			b.WriteString(`    <p class="meta">posted ` + formatTime(data.PostedAt) +
				`, flair &quot;` + html.EscapeString(data.Flair) + `&quot;`)
			if data.CurrentOp != "" {
				b.WriteString(`, held by ` + html.EscapeString(data.CurrentOp))
			}
			b.WriteString(`</p>
`)
		} else {
			b.WriteString(`    <p class="meta">No tick completed yet.</p>
`)
		}
		b.WriteString(`    <h2>Leaderboard</h2>
    <table>
      <tr><th>Rank</th><th>Username</th><th>Rounds won</th><th>Total</th></tr>
`)
		for _, row := range data.Leaderboard {
			rounds := make([]string, len(row.Rounds))
			for i, round := range row.Rounds {
				rounds[i] = strconv.Itoa(round)
			}
			fmt.Fprintf(&b, "      <tr><td>%d</td><td>%s</td><td>%s</td><td>%d</td></tr>\n",
				row.Rank, html.EscapeString(row.Username),
				html.EscapeString(strings.Join(rounds, ", ")), row.Total)
		}
		b.WriteString(`    </table>
    <p class="meta">updated ` + formatTime(data.UpdatedAt) + `</p>
    <script>
      const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
      ws.onmessage = () => location.reload();
    </script>
  </body>
</html>
`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("2006-01-02 15:04:05")
}
