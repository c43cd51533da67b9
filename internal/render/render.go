// Package render draws game snapshots as PNG frames for display clients.
// It reads only immutable snapshots, never the live world, so rendering
// cannot contend with the simulation.
package render

import (
	"bytes"
	"fmt"
	"image/color"

	"tower-defense/internal/game"

	"github.com/fogleman/gg"
)

// Board colors
var (
	backgroundColor = color.RGBA{120, 120, 120, 255} // Light grey field
	waypointColor   = color.RGBA{0, 0, 255, 255}     // Blue path markers
	monsterColor    = color.RGBA{255, 0, 0, 255}     // Red monster body
	healthBackColor = color.RGBA{255, 0, 0, 255}     // Empty health bar
	healthFillColor = color.RGBA{0, 255, 0, 255}     // Remaining health
	towerColor      = color.RGBA{0, 255, 0, 255}     // Green tower body
	bulletColor     = color.RGBA{0, 255, 255, 255}   // Cyan bullets
	outlineColor    = color.RGBA{0, 0, 0, 255}       // Range circles, bar borders
	hudColor        = color.RGBA{0, 0, 0, 255}
)

const healthBarHeight = 3.0

// Renderer draws snapshots onto a fixed-size board
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a renderer for the given board size
func NewRenderer(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// RenderPNG draws the snapshot and returns it PNG-encoded
func (r *Renderer) RenderPNG(snap *game.GameSnapshot) ([]byte, error) {
	dc := gg.NewContext(r.width, r.height)

	r.drawBackground(dc)

	// Monsters after waypoints so they appear on top of the path.
	r.drawWaypoints(dc, snap.Waypoints)
	r.drawMonsters(dc, snap.Monsters)
	r.drawTowers(dc, snap.Towers)
	r.drawBullets(dc, snap.Bullets)

	r.drawHUD(dc, snap)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawBackground(dc *gg.Context) {
	dc.SetColor(backgroundColor)
	dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	dc.Fill()
}

func (r *Renderer) drawWaypoints(dc *gg.Context, waypoints []game.WaypointSnapshot) {
	dc.SetColor(waypointColor)
	for _, wp := range waypoints {
		dc.DrawCircle(wp.X, wp.Y, game.WaypointRadius)
		dc.Fill()
	}
}

func (r *Renderer) drawMonsters(dc *gg.Context, monsters []game.MonsterSnapshot) {
	for _, m := range monsters {
		// Body, centered on the monster position
		dc.SetColor(monsterColor)
		dc.DrawRectangle(m.X-game.MonsterSize/2, m.Y-game.MonsterSize/2, game.MonsterSize, game.MonsterSize)
		dc.Fill()

		// Health bar above the body
		barY := m.Y - game.MonsterSize/2 - 5 - healthBarHeight/2

		dc.SetColor(healthBackColor)
		dc.DrawRectangle(m.X-game.MonsterSize/2, barY, game.MonsterSize, healthBarHeight)
		dc.Fill()

		dc.SetColor(outlineColor)
		dc.SetLineWidth(1)
		dc.DrawRectangle(m.X-game.MonsterSize/2, barY, game.MonsterSize, healthBarHeight)
		dc.Stroke()

		dc.SetColor(healthFillColor)
		dc.DrawRectangle(m.X-game.MonsterSize/2, barY, game.MonsterSize*m.HealthFrac, healthBarHeight)
		dc.Fill()
	}
}

func (r *Renderer) drawTowers(dc *gg.Context, towers []game.TowerSnapshot) {
	for _, t := range towers {
		dc.SetColor(towerColor)
		dc.DrawCircle(t.X, t.Y, game.TowerRadius)
		dc.Fill()

		// Attack range outline
		dc.SetColor(outlineColor)
		dc.SetLineWidth(1)
		dc.DrawCircle(t.X, t.Y, t.Range)
		dc.Stroke()
	}
}

func (r *Renderer) drawBullets(dc *gg.Context, bullets []game.BulletSnapshot) {
	dc.SetColor(bulletColor)
	for _, b := range bullets {
		dc.DrawCircle(b.X, b.Y, game.BulletRadius)
		dc.Fill()
	}
}

func (r *Renderer) drawHUD(dc *gg.Context, snap *game.GameSnapshot) {
	dc.SetColor(hudColor)

	lines := []string{
		fmt.Sprintf("Monsters: %d", snap.MonsterCount),
		fmt.Sprintf("Waypoints: %d", snap.WaypointCount),
		fmt.Sprintf("Towers: %d", snap.TowerCount),
		fmt.Sprintf("Kills: %d", snap.Kills),
	}
	for i, line := range lines {
		dc.DrawString(line, 10, 25+float64(i)*30)
	}

	dc.DrawStringAnchored(fmt.Sprintf("Health: %d", snap.PlayerHealth), float64(r.width)/2, 25, 0.5, 0)

	if snap.GameOver {
		dc.DrawStringAnchored("GAME OVER", float64(r.width)/2, float64(r.height)/2, 0.5, 0.5)
	}
}
