package main

import (
	"bytes"
	"flag"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/supercat/internal/application/game"
	"github.com/younwookim/supercat/internal/application/replay"
	"github.com/younwookim/supercat/internal/application/scene/playing"
	"github.com/younwookim/supercat/internal/application/system"
	"github.com/younwookim/supercat/internal/application/world"
	"github.com/younwookim/supercat/internal/domain/entity"
	"github.com/younwookim/supercat/internal/infrastructure/config"
	"github.com/younwookim/supercat/internal/infrastructure/storage"
)

func main() {
	// Parse command line flags
	stageFlag := flag.String("stage", "level1", "Stage to play from the embedded configs")
	tmxFlag := flag.String("tmx", "", "Play a Tiled map instead of an embedded stage (e.g., -tmx maps/level.tmx)")
	recordFlag := flag.String("record", "", "Record input to file (e.g., -record replay.json)")
	replayFlag := flag.String("replay", "", "Play back a recorded input file")
	lastFlag := flag.Bool("last", false, "Play back the last run stored for the stage")
	flag.Parse()

	// Load configurations using embedded filesystem
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		log.Fatalf("Failed to get config subfs: %v", err)
	}
	loader := config.NewFSLoader(fsys, "configs")
	cfg, err := loader.LoadAll()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load stage
	var stage *entity.Stage
	if *tmxFlag != "" {
		stage, err = system.LoadStageFromTMX(os.DirFS(filepath.Dir(*tmxFlag)), filepath.Base(*tmxFlag), cfg.Physics)
	} else {
		stage, err = system.LoadStageFromConfig(loader, *stageFlag, cfg.Physics)
	}
	if err != nil {
		log.Fatalf("Failed to load stage: %v", err)
	}

	session, err := world.NewSession(cfg, stage)
	if err != nil {
		log.Fatalf("Failed to start stage: %v", err)
	}
	session.SetLogger(log.Default())

	// The store is optional: without it the game still runs, it just forgets the last run
	store, err := storage.OpenReplayStore()
	if err != nil {
		log.Printf("Replay store unavailable: %v", err)
		store = nil
	}

	input, opts := chooseInput(cfg, stage, store, *replayFlag, *lastFlag, *recordFlag)

	display := cfg.Physics.Display
	g := game.New(playing.New(cfg, session, input, opts), display.ScreenWidth, display.ScreenHeight, display.Framerate)

	// Set up ebiten
	ebiten.SetWindowSize(display.ScreenWidth*display.Scale, display.ScreenHeight*display.Scale)
	ebiten.SetWindowTitle("Super Cat - " + stage.Name)
	ebiten.SetTPS(display.Framerate)

	// Run game
	runErr := ebiten.RunGame(g)
	g.Close()
	if runErr != nil {
		log.Fatal(runErr)
	}
}

// chooseInput picks the keyboard or a replay as the input source.
// Live runs are recorded to the store, and to a file when one is named.
func chooseInput(cfg *config.GameConfig, stage *entity.Stage, store *storage.ReplayStore, replayFile string, last bool, recordFile string) (playing.InputSource, playing.Options) {
	var data *replay.ReplayData
	var err error

	switch {
	case replayFile != "":
		data, err = replay.LoadReplay(replayFile)
	case last:
		if store == nil {
			log.Fatalf("Failed to load last replay: no replay store")
		}
		var raw []byte
		raw, err = store.LoadReplay(stage.Name)
		if err == nil {
			data, err = replay.Decode(bytes.NewReader(raw))
		}
	}
	if err != nil {
		log.Fatalf("Failed to load replay: %v", err)
	}

	if data != nil {
		if data.Stage != stage.Name {
			log.Printf("Replay was recorded on %q, playing it on %q", data.Stage, stage.Name)
		}
		if data.TPS != 0 && data.TPS != cfg.Physics.Display.Framerate {
			log.Printf("Replay was recorded at %d TPS, running at %d", data.TPS, cfg.Physics.Display.Framerate)
		}
		log.Printf("Replaying %d frames", len(data.Frames))
		return replay.NewReplayer(*data), playing.Options{}
	}

	opts := playing.Options{RecordPath: recordFile}
	if store != nil {
		opts.Store = store
	}
	return playing.NewKeyboardInput(system.NewInputSystem(cfg.Physics)), opts
}
