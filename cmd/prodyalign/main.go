// Command prodyalign superposes molecular structures and computes the
// usual deviation statistics over the result. It aligns the models of
// a PDB file (or several PDB files onto the first, matching their
// chains) and streams multi-segment ctf trajectories for per-frame
// RMSD and per-atom RMSF without loading them into memory.
package main

import (
	"fmt"
	"log"

	"github.com/alecthomas/kong"

	prody "github.com/crosvera/ProDy"
	"github.com/crosvera/ProDy/ensplot"
	"github.com/crosvera/ProDy/pdb"
	"github.com/crosvera/ProDy/seln"
	"github.com/crosvera/ProDy/traj"
)

const version = "0.2.0"

// CLI defines the command-line interface for prodyalign.
var CLI struct {
	Align   AlignCmd   `cmd:"" help:"Superpose PDB structures and write the aligned files"`
	Stats   StatsCmd   `cmd:"" help:"Stream a ctf trajectory and compute RMSD/RMSF against a reference"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// AlignCmd aligns the models of one PDB file, or several PDB files
// onto the first one.
type AlignCmd struct {
	Pdbs   []string `arg:"" name:"pdb" help:"PDB files to align" type:"existingfile"`
	Select string   `help:"Selection deriving the transforms (single file only)" default:"name CA"`
	Prefix string   `help:"Prefix of the written files" default:"aligned_"`
	Model  int      `help:"Model index of the reference" default:"0"`
	Scale  bool     `help:"Also fit a uniform scale (the result is no longer rigid)"`
	Plot   string   `help:"Save a per-model RMSD plot under this name (PNG)"`
}

func (c *AlignCmd) Run() error {
	o := prody.DefaultAlignOptions()
	o.Select = c.Select
	o.Prefix = c.Prefix
	o.Model = c.Model
	if c.Scale {
		o.Super = &prody.SuperOptions{Scale: true}
	}
	res, err := prody.Align(c.Pdbs, pdb.Parser{}, pdb.Writer{}, seln.Simple{}, o)
	if err != nil {
		return err
	}
	failed := 0
	for _, item := range res.Items {
		if item.Err != nil {
			failed++
			log.Printf("%s: %v", item.Name, item.Err)
			continue
		}
		fmt.Printf("%s -> %s\n", item.Name, item.Path)
		for i, r := range item.RMSDs {
			fmt.Printf("  model %d: RMSD %.3f\n", i, r)
		}
	}
	if c.Plot != "" {
		if len(res.Items) == 1 {
			if err := ensplot.RMSDPlot(res.Items[0].RMSDs, res.Items[0].Name, c.Plot); err != nil {
				return err
			}
		} else {
			// the reference is written untouched, so its deviations are
			// all zero; plot the mobile structures
			var names []string
			var series [][]float64
			for _, item := range res.Items[1:] {
				if item.Err != nil || len(item.RMSDs) == 0 {
					continue
				}
				names = append(names, item.Name)
				series = append(series, item.RMSDs)
			}
			if len(series) == 0 {
				log.Printf("nothing aligned, skipping the plot")
			} else if err := ensplot.RMSDSeriesPlot(names, series, "deviation from "+res.Reference, c.Plot); err != nil {
				return err
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d structures could not be aligned", failed, len(res.Items))
	}
	return nil
}

// StatsCmd streams one or more trajectory segments, superposing each
// frame onto a reference on the fly.
type StatsCmd struct {
	Trajs    []string `arg:"" name:"traj" help:"Trajectory segments (.ctf, .ctf.gz, .ctf.zst, .ctf.xz), read as one stream" type:"existingfile"`
	Top      string   `help:"PDB file providing the topology and the reference frame" required:"" type:"existingfile"`
	Select   string   `help:"Selection deriving the superpositions" default:"name CA"`
	First    int      `help:"First frame to use" default:"0"`
	Last     int      `help:"Last frame to use, -1 for all" default:"-1"`
	Stride   int      `help:"Take every nth frame" default:"1"`
	Rmsf     bool     `help:"Also compute per-atom fluctuations (reads the stream twice)"`
	PlotRmsd string   `name:"plot-rmsd" help:"Save the per-frame RMSD plot under this name (PNG)"`
	PlotRmsf string   `name:"plot-rmsf" help:"Save the per-atom RMSF plot under this name (PNG)"`
	PlotRgyr string   `name:"plot-rgyr" help:"Save the per-frame radius of gyration plot under this name (PNG)"`
}

func (c *StatsCmd) Run() error {
	top, frames, err := pdb.Parse(c.Top)
	if err != nil {
		return err
	}
	st, err := traj.New(c.Trajs...)
	if err != nil {
		return err
	}
	if err := st.SetAtoms(top); err != nil {
		return err
	}
	if err := st.Select(seln.Simple{}, c.Select); err != nil {
		return err
	}
	if err := st.SetReference(frames[0]); err != nil {
		return err
	}
	if err := st.SetWindow(c.First, c.Last, c.Stride); err != nil {
		return err
	}
	rmsds, err := st.RMSDs()
	if err != nil {
		return err
	}
	for i, r := range rmsds {
		fmt.Printf("frame %d: RMSD %.3f\n", i, r)
	}
	if c.PlotRmsd != "" {
		if err := ensplot.RMSDPlot(rmsds, "per-frame deviation", c.PlotRmsd); err != nil {
			return err
		}
	}
	if c.PlotRgyr != "" {
		rgyrs, err := st.Rgyrs()
		if err != nil {
			return err
		}
		if err := ensplot.RgyrPlot(rgyrs, "radius of gyration", c.PlotRgyr); err != nil {
			return err
		}
	}
	if c.Rmsf || c.PlotRmsf != "" {
		rmsfs, err := st.RMSFs()
		if err != nil {
			return err
		}
		for i, r := range rmsfs {
			fmt.Printf("atom %d: RMSF %.3f\n", i, r)
		}
		if c.PlotRmsf != "" {
			if err := ensplot.RMSFPlot(rmsfs, "per-atom fluctuation", c.PlotRmsf); err != nil {
				return err
			}
		}
	}
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println("prodyalign", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("prodyalign"),
		kong.Description("Structural superposition and deviation statistics"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
