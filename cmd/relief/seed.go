package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandevgo/reliefbot/internal/config"
	"github.com/sandevgo/reliefbot/internal/storage/sqlite"
	"github.com/sandevgo/reliefbot/pkg/log"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the facility and FAQ directories into the database",
	Long:  `Populates the local database with the hospital, police station and FAQ records the agents search against. Safe to re-run: already-seeded tables are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}
		appCfg := config.NewAppConfig(ctx)

		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := seed(ctx, db); err != nil {
			return err
		}

		logger.Info().Str("db", appCfg.GetDatabasePath()).Msg("seeding complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func seed(ctx context.Context, db *sql.DB) error {
	logger := log.FromCtx(ctx)

	empty, err := tableEmpty(ctx, db, "facilities")
	if err != nil {
		return err
	}
	if empty {
		facilities := sqlite.NewFacilities(db)
		for _, f := range seedFacilities {
			if err := facilities.Insert(ctx, f); err != nil {
				return fmt.Errorf("seed facility %q: %w", f.Name, err)
			}
		}
		logger.Info().Int("count", len(seedFacilities)).Msg("seeded facilities")
	} else {
		logger.Info().Msg("facilities already seeded, skipping")
	}

	empty, err = tableEmpty(ctx, db, "faqs")
	if err != nil {
		return err
	}
	if empty {
		faqs := sqlite.NewFAQs(db)
		for _, f := range seedFAQs {
			if err := faqs.Insert(ctx, f); err != nil {
				return fmt.Errorf("seed faq %q: %w", f.Question, err)
			}
		}
		logger.Info().Int("count", len(seedFAQs)).Msg("seeded faqs")
	} else {
		logger.Info().Msg("faqs already seeded, skipping")
	}

	return nil
}

func tableEmpty(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+table).Scan(&count); err != nil {
		return false, fmt.Errorf("count %s: %w", table, err)
	}
	return count == 0, nil
}

var seedFacilities = []sqlite.Facility{
	{
		Kind: sqlite.FacilityHospital, Name: "Civil Hospital Karachi",
		Address: "Baba-e-Urdu Road, Saddar", City: "Karachi",
		Phone: "021-99215740", Email: "appointments@civilhospital.example.pk",
		Latitude: 24.8556, Longitude: 67.0092,
		Services: "emergency, general medicine, surgery, cardiology",
	},
	{
		Kind: sqlite.FacilityHospital, Name: "Jinnah Postgraduate Medical Centre",
		Address: "Rafiqui Shaheed Road", City: "Karachi",
		Phone: "021-99201300", Email: "bookings@jpmc.example.pk",
		Latitude: 24.8531, Longitude: 67.0413,
		Services: "emergency, trauma, burns unit, pediatrics",
	},
	{
		Kind: sqlite.FacilityHospital, Name: "Abbasi Shaheed Hospital",
		Address: "Nazimabad No. 5", City: "Karachi",
		Phone: "021-99260400",
		Latitude: 24.9216, Longitude: 67.0362,
		Services: "emergency, gynecology, orthopedics",
	},
	{
		Kind: sqlite.FacilityPolice, Name: "Saddar Police Station",
		Address: "Abdullah Haroon Road, Saddar", City: "Karachi",
		Phone: "021-99212651",
		Latitude: 24.8590, Longitude: 67.0250,
		Services: "FIR registration, women desk",
	},
	{
		Kind: sqlite.FacilityPolice, Name: "Clifton Police Station",
		Address: "Khayaban-e-Iqbal, Clifton", City: "Karachi",
		Phone: "021-99251623",
		Latitude: 24.8138, Longitude: 67.0300,
		Services: "FIR registration, anti-harassment cell",
	},
	{
		Kind: sqlite.FacilityPolice, Name: "Gulshan-e-Iqbal Police Station",
		Address: "University Road, Gulshan-e-Iqbal", City: "Karachi",
		Phone: "021-99231170",
		Latitude: 24.9180, Longitude: 67.0971,
		Services: "FIR registration, cybercrime referral",
	},
}

var seedFAQs = []sqlite.FAQ{
	{
		Topic:    "emergency",
		Question: "What number do I call for a medical emergency?",
		Answer:   "Call 1122 for medical emergencies and rescue services. The line is open 24/7.",
	},
	{
		Topic:    "emergency",
		Question: "What number do I call for police help?",
		Answer:   "Call 15 for police emergencies. The Women Helpline is 1099 and Child Protection is 1098.",
	},
	{
		Topic:    "timings",
		Question: "What are the hospital OPD timings?",
		Answer:   "OPD runs 9am to 5pm, Monday to Saturday. Emergency departments are open 24/7.",
	},
	{
		Topic:    "registration",
		Question: "How do I register at a government hospital?",
		Answer:   "Bring your CNIC to the registration desk. Registration for OPD is a nominal fee; emergencies are attended first and registered after.",
	},
	{
		Topic:    "booking",
		Question: "How do I book an appointment?",
		Answer:   "Tell the assistant the facility, the date and your preferred time. Appointments can be booked Monday to Saturday, 9am to 6pm.",
	},
	{
		Topic:    "fir",
		Question: "How do I file an FIR?",
		Answer:   "Visit the police station in whose jurisdiction the incident occurred with your CNIC. Filing an FIR is free of charge.",
	},
}
