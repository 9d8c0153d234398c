package aspen

import (
	"slices"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GlobalPlugins are the game-level systems copied into every scene's Systems.
var GlobalPlugins = []string{"game", "cache", "plugins", "registry"}

// CoreScenePlugins are installed into every scene.
var CoreScenePlugins = []string{
	"CameraManager",
	"GameObjectFactory",
	"SceneProxy",
	"DisplayList",
	"UpdateList",
}

// DefaultScenePlugins are installed into every scene that does not override
// SceneConfig.Plugins.
var DefaultScenePlugins = []string{
	"Clock",
	"DataManagerPlugin",
	"InputPlugin",
	"Loader",
	"TweenManager",
}

// InjectionMap maps Systems keys to the alias a Scene exposes them under.
// A key missing from the map is not injected.
var InjectionMap = map[string]string{
	"game":     "game",
	"cache":    "cache",
	"plugins":  "plugins",
	"registry": "registry",

	"events":      "events",
	"cameras":     "cameras",
	"add":         "add",
	"scenePlugin": "scene",
	"displayList": "children",
	"data":        "data",
	"input":       "input",
	"load":        "load",
	"time":        "time",
	"tweens":      "tweens",

	"arcadePhysics": "physics",
	"matterPhysics": "matter",
}

// scenePluginKeys returns the scene's plugin override, or the defaults plus
// any scene plugins installed at runtime.
func scenePluginKeys(sys *Systems) []string {
	if sys.settings.Plugins != nil {
		return sys.settings.Plugins
	}
	return sys.pluginManager.DefaultScenePlugins()
}

// physicsPluginKeys returns the physics plugin keys a scene requests: the
// game default followed by each scene physics entry, as "<Name>Physics".
func physicsPluginKeys(sys *Systems) []string {
	def := sys.game.config.DefaultPhysics
	if def == "" && len(sys.settings.Physics) == 0 {
		return nil
	}
	title := cases.Title(language.Und, cases.NoLower)
	var out []string
	if def != "" {
		out = append(out, title.String(def+"Physics"))
	}
	names := make([]string, 0, len(sys.settings.Physics))
	for name := range sys.settings.Physics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		key := title.String(name + "Physics")
		if !slices.Contains(out, key) {
			out = append(out, key)
		}
	}
	return out
}
