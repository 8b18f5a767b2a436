package providers

import (
	"fmt"
	"strings"
)

type statLine struct {
	pts, trb, ast, blk, stl, tov string
}

func line(pts, trb, ast, blk, stl, tov int) statLine {
	return statLine{
		pts: fmt.Sprint(pts), trb: fmt.Sprint(trb), ast: fmt.Sprint(ast),
		blk: fmt.Sprint(blk), stl: fmt.Sprint(stl), tov: fmt.Sprint(tov),
	}
}

// gameLogTable renders a table shaped like the site's regular season game log.
func gameLogTable(id string, games []statLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<table id="%s" class="stats_table"><thead><tr>`, id)
	b.WriteString(`<th>Rk</th><th>Date</th><th>Opp</th><th>MP</th><th>PTS</th><th>TRB</th><th>AST</th><th>BLK</th><th>STL</th><th>TOV</th>`)
	b.WriteString(`</tr></thead><tbody>`)
	for i, g := range games {
		if i > 0 && i%20 == 0 {
			b.WriteString(`<tr class="thead"><th>Rk</th><th>Date</th><th>Opp</th><th>MP</th><th>PTS</th><th>TRB</th><th>AST</th><th>BLK</th><th>STL</th><th>TOV</th></tr>`)
		}
		fmt.Fprintf(&b, `<tr><th>%d</th><td>2024-01-%02d</td><td>BOS</td><td>34:00</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			i+1, i%28+1, g.pts, g.trb, g.ast, g.blk, g.stl, g.tov)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

func gameLogPage(games []statLine) string {
	return "<html><body>" + gameLogTable("pgl_basic", games) + "</body></html>"
}

func uniformGames(n int, g statLine) []statLine {
	games := make([]statLine, n)
	for i := range games {
		games[i] = g
	}
	return games
}

func playerIndexPage(rows ...string) string {
	return `<html><body><table id="players"><tbody>` + strings.Join(rows, "") + `</tbody></table></body></html>`
}

func indexRow(href, name string, active bool) string {
	link := fmt.Sprintf(`<a href="%s">%s</a>`, href, name)
	if active {
		link = "<strong>" + link + "</strong>"
	}
	return `<tr><th data-stat="player">` + link + `</th><td>2020</td><td>2025</td></tr>`
}
