package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	studyPlanIDs []int
	nameEn       string
	nameAr       string
	baseURL      string
	outFile      string
	verbose      bool
	submit       bool
	cfgFile      string
)

// Execute builds and runs the cobra command tree. It is the sole
// entry point invoked by main(); the legacy flag-based loop and the
// wasm build of this tool are not carried forward (see DESIGN.md).
func Execute() {
	root := &cobra.Command{
		Use:   "unitimetable",
		Short: "University timetable scheduling engine",
		Long:  "Generates a conflict-free university course timetable from study plans, rooms, and staff availability, optionally submitting the result upstream.",
	}

	cmdGen := &cobra.Command{
		Use:   "gen",
		Short: "generate a schedule for one or more study plans",
		Run:   CommandGen,
	}
	cmdGen.Flags().IntSliceVar(&studyPlanIDs, "study-plans", nil, "study plan ids to schedule")
	cmdGen.Flags().StringVar(&nameEn, "name-en", "", "English name for the submission payload")
	cmdGen.Flags().StringVar(&nameAr, "name-ar", "", "Arabic name for the submission payload")
	cmdGen.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "base URL of the upstream study-plan/rooms/schedule service")
	cmdGen.Flags().StringVar(&outFile, "out", "schedule.json", "file to write the rendered schedule to")
	cmdGen.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	cmdGen.Flags().BoolVar(&submit, "submit", false, "submit the finished schedule upstream after generation")
	cmdGen.Flags().StringVar(&cfgFile, "config", "", "path to a config file overriding scheduler defaults")
	cmdGen.MarkFlagRequired("study-plans")
	root.AddCommand(cmdGen)

	if err := root.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func loadConfig() Config {
	cfg := DefaultConfig()
	if cfgFile == "" {
		return cfg
	}

	v := viper.New()
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("reading config file %s: %v", cfgFile, err)
	}

	if v.IsSet("max_attempts") {
		cfg.MaxAttempts = v.GetInt("max_attempts")
	}
	if v.IsSet("preferred_capacity_ratio") {
		cfg.PreferredCapacityRatio = v.GetFloat64("preferred_capacity_ratio")
	}
	if v.IsSet("early_stop_score") {
		cfg.EarlyStopScore = v.GetFloat64("early_stop_score")
	}
	if v.IsSet("submission_retries") {
		cfg.SubmissionRetries = v.GetInt("submission_retries")
	}
	if v.IsSet("submission_timeout_seconds") {
		cfg.SubmissionTimeout = time.Duration(v.GetInt("submission_timeout_seconds")) * time.Second
	}
	if v.IsSet("weight_lecturer_preference") {
		cfg.WeightLecturerPreference = v.GetFloat64("weight_lecturer_preference")
	}
	if v.IsSet("weight_ta_preference") {
		cfg.WeightTAPreference = v.GetFloat64("weight_ta_preference")
	}
	if v.IsSet("weight_gap_minimization") {
		cfg.WeightGapMinimization = v.GetFloat64("weight_gap_minimization")
	}
	if v.IsSet("weight_room_utilization") {
		cfg.WeightRoomUtilization = v.GetFloat64("weight_room_utilization")
	}
	return cfg
}

// CommandGen fetches inputs, validates them, runs the scheduling
// engine, writes the rendered schedule, and optionally submits it
// upstream (spec.md §1, §9).
func CommandGen(cmd *cobra.Command, args []string) {
	if len(studyPlanIDs) == 0 {
		log.Fatalf("--study-plans must name at least one study plan id")
	}

	cfg := loadConfig()
	sink := NewZapSink(verbose)
	ctx := context.Background()

	client := NewAPIClient(baseURL, cfg, sink)

	plans, err := client.FetchStudyPlans(ctx, studyPlanIDs)
	if err != nil {
		log.Fatalf("fetching study plans: %v", err)
	}
	halls, labs, err := client.FetchRooms(ctx)
	if err != nil {
		log.Fatalf("fetching rooms: %v", err)
	}

	if err := ValidateInput(plans, halls, labs); err != nil {
		log.Fatalf("input validation failed: %v", err)
	}

	rm := NewResourceManager(cfg, halls, labs)
	cm := NewConstraintManager(cfg, sink)
	engine := NewSchedulingEngine(cfg, rm, cm, sink)

	result, err := engine.Run(plans)
	if err != nil {
		log.Fatalf("scheduling failed: %v", err)
	}

	stats := rm.Stats(ExpandBlocks(plans))
	sink.OnLog(LogInfo, "resource usage", map[string]interface{}{"rooms_used": len(stats.RoomUsage), "staff_scheduled": len(stats.StaffWorkload), "min_rooms_hint": stats.MinRoomsHint})

	report := ValidateSchedule(result.Assignments)
	if !report.Empty() {
		sink.OnLog(LogWarn, "post-hoc validation found conflicts", map[string]interface{}{"error": report.AsError().Error()})
	}

	doc, err := RenderScheduleJSON(result.Assignments, len(halls)+len(labs), countDistinctStaff(result.Assignments), time.Now())
	if err != nil {
		log.Fatalf("rendering schedule: %v", err)
	}
	if err := os.WriteFile(outFile, doc, 0644); err != nil {
		log.Fatalf("writing %s: %v", outFile, err)
	}

	log.Printf("run %s placed %d/%d blocks in %d attempts (mean soft score %.3f)", result.RunID, result.PlacedCount, result.TotalBlocks, result.Attempts, result.BestScore)
	if len(result.Unplaced) > 0 {
		log.Printf("unplaced blocks: %s", strings.Join(result.Unplaced, ", "))
	}

	if submit {
		if nameEn == "" || nameAr == "" {
			log.Fatalf("--submit requires --name-en and --name-ar")
		}
		payload := BuildSubmissionPayload(nameEn, nameAr, result.Assignments, academicIDLookup(plans))
		if err := client.SubmitSchedule(ctx, payload); err != nil {
			log.Fatalf("submitting schedule: %v", err)
		}
		log.Printf("schedule submitted")
	}
}

func countDistinctStaff(assignments map[string]*Assignment) int {
	seen := make(map[int]bool)
	for _, a := range assignments {
		seen[a.Block.Staff.StaffID()] = true
	}
	return len(seen)
}

// academicIDLookup is a placeholder id mapper until the upstream
// service exposes a dedicated lookup endpoint; for now the academic
// list name is used verbatim as the id when it already parses as an
// integer, falling back to 0. department_id needs no such lookup: it
// travels on Block.Department, copied from StudyPlan.Department at
// block-expansion time (see engine.go).
func academicIDLookup(plans []StudyPlan) func(string) int {
	return func(academicList string) int {
		if n, err := strconv.Atoi(academicList); err == nil {
			return n
		}
		return 0
	}
}
