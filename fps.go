package aspen

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewFPSWidget returns a sprite showing the game's measured FPS and
// ebiten's TPS, redrawn every half second. Add it to a scene with
// GameObjectFactory.Existing.
func NewFPSWidget(g *Game) *Node {
	img := ebiten.NewImage(100, 32)
	node := NewSprite("fps_widget", img)
	node.Depth = 1 << 20

	var since float64
	node.OnPreUpdate = func(_, delta float64) {
		since += delta
		if since < 500 {
			return
		}
		since = 0

		img.Clear()
		img.Fill(color.RGBA{0, 0, 0, 128})
		fps := ebiten.ActualFPS()
		if g != nil {
			fps = g.loop.ActualFPS()
		}
		ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", fps, ebiten.ActualTPS()))
	}
	return node
}
