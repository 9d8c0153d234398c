package aspen

import "github.com/hajimehoshi/ebiten/v2"

// Step carries the loop time and the frame delta, both in milliseconds.
type Step struct {
	Time  float64
	Delta float64
}

// SceneData accompanies lifecycle events that can carry user data.
type SceneData struct {
	Sys  *Systems
	Data any
}

// Transition describes one phase of a scene transition. Scene is the other
// party: the source scene for init, start, wake and complete; the target
// scene for out.
type Transition struct {
	Scene    *Scene
	Duration float64
}

// Scene events, emitted on Systems.Events().
var (
	SceneBoot               = NewEvent[*Systems]("boot")
	SceneStart              = NewEvent[*Systems]("start")
	SceneReady              = NewEvent[SceneData]("ready")
	ScenePreUpdate          = NewEvent[Step]("preupdate")
	SceneUpdate             = NewEvent[Step]("update")
	ScenePostUpdate         = NewEvent[Step]("postupdate")
	ScenePreRender          = NewEvent[*ebiten.Image]("prerender")
	SceneRender             = NewEvent[*ebiten.Image]("render")
	ScenePause              = NewEvent[SceneData]("pause")
	SceneResume             = NewEvent[SceneData]("resume")
	SceneSleep              = NewEvent[SceneData]("sleep")
	SceneWake               = NewEvent[SceneData]("wake")
	SceneShutdown           = NewEvent[SceneData]("shutdown")
	SceneDestroy            = NewEvent[*Systems]("destroy")
	SceneCreate             = NewEvent[*Scene]("create")
	SceneTransitionInit     = NewEvent[Transition]("transitioninit")
	SceneTransitionStart    = NewEvent[Transition]("transitionstart")
	SceneTransitionOut      = NewEvent[Transition]("transitionout")
	SceneTransitionComplete = NewEvent[Transition]("transitioncomplete")
	SceneTransitionWake     = NewEvent[Transition]("transitionwake")
	SceneAddedToScene       = NewEvent[*Node]("addedtoscene")
	SceneRemovedFromScene   = NewEvent[*Node]("removedfromscene")
)

// Game events, emitted on Game.Events().
var (
	GameBoot       = NewEvent[*Game]("boot")
	GameReady      = NewEvent[*Game]("ready")
	GamePreStep    = NewEvent[Step]("prestep")
	GameStep       = NewEvent[Step]("step")
	GamePostStep   = NewEvent[Step]("poststep")
	GamePreRender  = NewEvent[*ebiten.Image]("prerender")
	GamePostRender = NewEvent[*ebiten.Image]("postrender")
	GamePause      = NewEvent[*Game]("pause")
	GameResume     = NewEvent[*Game]("resume")
	GameBlur       = NewEvent[*Game]("blur")
	GameFocus      = NewEvent[*Game]("focus")
	GameDestroy    = NewEvent[*Game]("destroy")
)
