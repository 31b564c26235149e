package stress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/osdev-go/ksync/cmd/util"
	"github.com/osdev-go/ksync/lib/cpu"
	"github.com/osdev-go/ksync/lib/spinlock"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// StressCmd runs the guarded increment workload
	StressCmd = &cobra.Command{
		Use:   "stress",
		Short: "Run a guarded increment workload across simulated cores",
		Long: `Run a guarded increment workload: N actors, multiplexed onto a set of
simulated cores, perform M scope-guarded increments of a shared counter.
The run fails if any update is lost. Configuration can be set via command
line flags or environment variables with the KSYNC_ prefix (e.g.
KSYNC_ACTORS=16).`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return util.BindCommandFlags(cmd)
		},
		RunE: run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// add flags
	key := "actors"
	StressCmd.Flags().Int(key, 8, util.WrapString("Number of concurrent actors performing guarded increments"))

	key = "iterations"
	StressCmd.Flags().Int(key, 100000, util.WrapString("Number of guarded increments each actor performs"))

	key = "cores"
	StressCmd.Flags().Int(key, 0, util.WrapString("Number of simulated cores to bring up. Actors are multiplexed onto them round robin. 0 brings up one core per actor; values above the actor count are capped"))

	key = "lock"
	StressCmd.Flags().String(key, "spin", util.WrapString("Lock type to exercise (spin, recursive)"))

	key = "metrics"
	StressCmd.Flags().Bool(key, false, util.WrapString("Dump the metrics registry in Prometheus text format after the run"))
}

// coreSlot pairs a core with the mutex serializing which actor goroutine is
// driving it. A core must only ever be driven by one goroutine at a time.
type coreSlot struct {
	mu   sync.Mutex
	core *cpu.Core
}

// runWorkload brings up the requested number of cores on the machine,
// multiplexes the actors onto them round robin, and returns the final value
// of the guarded counter. cores <= 0 or cores > actors means one core per
// actor. A nil timer disables latency sampling.
func runWorkload(machine *cpu.Machine, actors, iterations, cores int, lk spinlock.ILock, timer gometrics.Timer) int {
	if cores <= 0 || cores > actors {
		cores = actors
	}

	slots := make([]*coreSlot, cores)
	for i := range slots {
		slots[i] = &coreSlot{core: machine.BringUp()}
	}

	counter := 0

	var wg sync.WaitGroup
	wg.Add(actors)

	for i := 0; i < actors; i++ {
		slot := slots[i%cores]
		go func(s *coreSlot) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				s.mu.Lock()
				acquireStart := time.Now()
				g := spinlock.NewScopedLock(lk, s.core)
				if timer != nil {
					timer.UpdateSince(acquireStart)
				}
				counter++
				g.Release()
				s.mu.Unlock()
			}
		}(slot)
	}
	wg.Wait()

	return counter
}

func run(_ *cobra.Command, _ []string) error {
	actors := viper.GetInt("actors")
	iterations := viper.GetInt("iterations")
	if actors < 1 || iterations < 1 {
		return fmt.Errorf("actors and iterations must be >= 1 (got %d, %d)", actors, iterations)
	}
	cores := viper.GetInt("cores")
	if cores < 0 {
		return fmt.Errorf("cores must be >= 0 (got %d)", cores)
	}

	var lk spinlock.ILock
	switch lockType := viper.GetString("lock"); lockType {
	case "spin":
		lk = &spinlock.SpinLock[uint64]{}
	case "recursive":
		lk = &spinlock.RecursiveSpinLock{}
	default:
		return fmt.Errorf("invalid lock type %s (expected spin or recursive)", lockType)
	}

	// Timer for acquisition latency (histogram with percentiles)
	timer := gometrics.NewTimer()

	machine := cpu.NewMachine()

	start := time.Now()
	counter := runWorkload(machine, actors, iterations, cores, lk, timer)
	elapsed := time.Since(start)

	expected := actors * iterations
	if counter != expected {
		return fmt.Errorf("lost updates: expected %d increments, counted %d", expected, counter)
	}

	fmt.Printf("%d actors x %d guarded increments on %d cores: %d increments in %v (%.0f/s)\n",
		actors, iterations, machine.NumCores(), counter,
		elapsed.Round(time.Millisecond), float64(expected)/elapsed.Seconds())
	fmt.Printf("acquire latency: mean %v / p95 %v / p99 %v / max %v\n",
		time.Duration(timer.Mean()),
		time.Duration(timer.Percentile(0.95)),
		time.Duration(timer.Percentile(0.99)),
		time.Duration(timer.Max()))

	if viper.GetBool("metrics") {
		fmt.Println()
		metrics.WritePrometheus(os.Stdout, false)
	}

	return nil
}
