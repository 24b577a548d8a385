package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"

	"github.com/tcm/intake/internal/domain/assessment"
	"github.com/tcm/intake/internal/domain/catalog"
	"github.com/tcm/intake/internal/platform/export"
	"github.com/tcm/intake/internal/platform/render"
)

// offlineService builds a service for one-shot CLI use. Nothing it stores
// outlives the command.
func offlineService(catalogFile string) (*assessment.Service, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if catalogFile != "" {
		cat, err = catalog.LoadFile(catalogFile)
	} else {
		cat, err = catalog.Load()
	}
	if err != nil {
		return nil, err
	}
	return assessment.NewService(cat, assessment.NewMemoryRepository(), 0), nil
}

// evaluateFile reads a submission body ({"answers": {...}}) and assembles it.
func evaluateFile(svc *assessment.Service, path string) (*assessment.Record, error) {
	// #nosec G304 - path is given on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read answers", goerr.V("path", path))
	}
	var sub assessment.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, goerr.Wrap(err, "failed to parse answers", goerr.V("path", path))
	}
	answers, err := assessment.DecodeAnswers(svc.Catalog(), sub.Answers)
	if err != nil {
		return nil, err
	}
	return svc.Evaluate(answers)
}

func catalogCmd() *cobra.Command {
	var catalogFile string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the field catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := offlineService(catalogFile)
			if err != nil {
				return err
			}
			cat := svc.Catalog()
			p := render.NewPrinter(cmd.OutOrStdout())
			for _, sec := range cat.Sections() {
				rows := make([][]string, 0, len(sec.Fields))
				for _, f := range sec.Fields {
					rows = append(rows, []string{
						f.ID,
						f.Label,
						string(f.Kind),
						strings.Join(f.Options, "/"),
						fieldDefault(f),
						describeCondition(f.When),
					})
				}
				if err := p.Table(sec.Name, []string{"ID", "标签", "类型", "选项", "默认", "条件"}, rows); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "catalog TOML file (defaults to the built-in catalog)")
	return cmd
}

func fieldDefault(f *catalog.Field) string {
	if f.DefaultToday {
		return "今天"
	}
	return f.Default
}

func describeCondition(c *catalog.Condition) string {
	if c == nil {
		return ""
	}
	if len(c.All) > 0 {
		parts := make([]string, 0, len(c.All))
		for i := range c.All {
			parts = append(parts, describeCondition(&c.All[i]))
		}
		return strings.Join(parts, " 且 ")
	}
	return c.Field + " ∈ {" + strings.Join(c.In, ",") + "}"
}

func summaryCmd() *cobra.Command {
	var input, catalogFile string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Validate an answers file and print its summary and rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := offlineService(catalogFile)
			if err != nil {
				return err
			}
			rec, err := evaluateFile(svc, input)
			if err != nil {
				return err
			}

			p := render.NewPrinter(cmd.OutOrStdout())
			s := rec.Summary()
			summaryRows := [][]string{
				{"姓名", s.Name},
				{"性别", s.Gender},
				{"年龄", s.Age},
				{"精力体力", s.Energy},
				{"怕冷/怕热", s.TemperaturePreference},
				{"出汗情况", s.Sweat},
				{"整体寒热感觉", s.BodyTemperature},
			}
			if s.MainComplaint != "" {
				summaryRows = append(summaryRows, []string{"最主要的不适", s.MainComplaint})
			}
			if s.Constitution != "" {
				summaryRows = append(summaryRows, []string{"体质倾向", s.Constitution})
			}
			if err := p.Table(svc.Catalog().ReportType(), []string{"项目", "内容"}, summaryRows); err != nil {
				return err
			}

			flat := rec.Flatten()
			rows := make([][]string, 0, len(flat))
			for _, r := range flat {
				rows = append(rows, []string{r.Label, r.Value})
			}
			if err := p.Table("完整记录", []string{"字段", "值"}, rows); err != nil {
				return err
			}
			return p.Notes("温馨提示", s.Notes)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "answers JSON file")
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "catalog TOML file (defaults to the built-in catalog)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func exportCmd() *cobra.Command {
	var input, format, outDir, catalogFile string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Validate an answers file and write a CSV or XLSX export",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			svc, err := offlineService(catalogFile)
			if err != nil {
				return err
			}
			rec, err := evaluateFile(svc, input)
			if err != nil {
				return err
			}
			d, err := assessment.Export(svc.Catalog(), rec, f)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return goerr.Wrap(err, "failed to create output directory", goerr.V("dir", outDir))
			}
			path := filepath.Join(outDir, d.Filename)
			if err := os.WriteFile(path, d.Data, 0o600); err != nil {
				return goerr.Wrap(err, "failed to write export", goerr.V("path", path))
			}
			return render.NewPrinter(cmd.OutOrStdout()).Line("wrote %s (%d bytes)", path, len(d.Data))
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "answers JSON file")
	cmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "export format: csv or xlsx")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "catalog TOML file (defaults to the built-in catalog)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
