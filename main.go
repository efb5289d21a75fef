package main

import (
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/timtadh/getopt"

	"github.com/samuli/blockdive/internal/cache"
	"github.com/samuli/blockdive/internal/core"
	"github.com/samuli/blockdive/internal/model"
	"github.com/samuli/blockdive/internal/simfs"
	"github.com/samuli/blockdive/internal/stats"
	"github.com/samuli/blockdive/internal/ui"
)

var UsageMessage = "blockdive [options]"
var ExtendedMessage = `
blockdive visualizes the block allocation of a simulated storage
device: a zoomable block map, a paginated list fallback, a shell-like
command interpreter and three allocation strategies.

Options
  -h, --help            view this message
  --size=<bytes>        device size in bytes (default 100000000)
  --block-size=<bytes>  block size in bytes (default 4096)
  --strategy=<name>     contiguous | linked | indexed
  --rand-seed=<int>     seed for linked allocation placement
  --no-samples          start with an empty device
  --seed-dir=<path>     mirror a real directory tree onto the device
  --match-volume        size the device like the volume holding the
                        current directory
  --load=<name>         restore the latest saved snapshot of that name
  --save=<name>         save a snapshot under that name on exit
`

func Usage(code int) {
	fmt.Fprintln(os.Stderr, UsageMessage)
	if code == 0 {
		fmt.Fprintln(os.Stdout, ExtendedMessage)
	} else {
		fmt.Fprintln(os.Stderr, "Try -h or --help for help")
	}
	os.Exit(code)
}

func ParseInt64(str string) int64 {
	i, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing '%v' expected an int\n", str)
		Usage(1)
	}
	return i
}

func main() {
	// Enable CPU profiling if CPUPROFILE env var is set
	if cpuProfile := os.Getenv("CPUPROFILE"); cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", cpuProfile)
	}

	_, optargs, err := getopt.GetOpt(
		os.Args[1:],
		"h",
		[]string{
			"help", "size=", "block-size=", "strategy=", "rand-seed=",
			"no-samples", "seed-dir=", "match-volume", "load=", "save=",
		},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		Usage(1)
	}

	statsMgr := stats.NewManager()
	_ = statsMgr.Load()

	opts := simfs.Options{
		TotalBytes: statsMgr.DeviceBytes(),
		Strategy:   statsMgr.DefaultStrategy(),
	}
	seedDir := ""
	loadName := ""
	saveName := ""
	matchVolume := false

	for _, oa := range optargs {
		switch oa.Opt() {
		case "-h", "--help":
			Usage(0)
		case "--size":
			opts.TotalBytes = ParseInt64(oa.Arg())
		case "--block-size":
			opts.BlockSize = ParseInt64(oa.Arg())
		case "--strategy":
			t := model.AllocationType(oa.Arg())
			if !t.Valid() {
				fmt.Fprintf(os.Stderr, "Unknown strategy '%v'\n", oa.Arg())
				Usage(1)
			}
			opts.Strategy = t
		case "--rand-seed":
			opts.RandSeed = ParseInt64(oa.Arg())
		case "--no-samples":
			opts.NoSamples = true
		case "--seed-dir":
			seedDir = oa.Arg()
			opts.NoSamples = true
		case "--match-volume":
			matchVolume = true
		case "--load":
			loadName = oa.Arg()
		case "--save":
			saveName = oa.Arg()
		default:
			fmt.Fprintf(os.Stderr, "Unknown flag '%v'\n", oa.Opt())
			Usage(1)
		}
	}

	if matchVolume {
		if used := simfs.VolumeBytes("."); used > 0 {
			opts.TotalBytes = used
		}
	}

	snapshots := cache.New(cache.DefaultDir())

	var fs *simfs.FileSystem
	if loadName != "" {
		img, err := snapshots.LoadLatest(loadName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fs = simfs.Restore(img)
	} else {
		fs = simfs.New(opts)
		if seedDir != "" {
			res, err := fs.Seed(seedDir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error seeding from %s: %v\n", seedDir, err)
				os.Exit(1)
			}
			if res.Skipped > 0 {
				fmt.Fprintf(os.Stderr, "%d files did not fit on the device and were skipped\n", res.Skipped)
			}
		}
	}

	if opts.TotalBytes > 0 {
		statsMgr.SetDeviceBytes(opts.TotalBytes)
	}

	controller := core.NewController(simfs.NewService(fs))
	app := ui.NewApp(controller, statsMgr)
	app.SetStrategyDisplay(fs.Strategy())

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if saveName != "" {
		if err := snapshots.Save(saveName, fs.Image()); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving snapshot: %v\n", err)
			os.Exit(1)
		}
	}
	_ = statsMgr.Close()
}
