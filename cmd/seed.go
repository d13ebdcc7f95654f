package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/notification"
	scheduleModels "github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
	slotModels "github.com/m04kA/SMC-AvailabilityService/internal/service/slots/models"
	bookSlotUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/book_slot"
)

func seedCmd(configPath *string) *cobra.Command {
	var (
		providers int
		days      int
		bookings  int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill storage with demo providers, slots and bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			rt, err := bootstrap(ctx, *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			application := rt.newApp(notification.Nop{})
			gofakeit.Seed(time.Now().UnixNano())

			var totalSlots, totalBookings int
			for i := 0; i < providers; i++ {
				providerID := uuid.New()

				if _, err := application.Schedules.Upsert(ctx, providerID, demoSchedule(rt.cfg.Scheduling.DefaultTimezone)); err != nil {
					return fmt.Errorf("seed schedule for provider %s: %w", providerID, err)
				}

				from := time.Now().UTC().AddDate(0, 0, 1)
				batch, err := application.GenerateSlots.Execute(ctx, providerID, &slotModels.GenerateSlotsRequest{
					StartDate:       from.Format(domain.DateFormat),
					EndDate:         from.AddDate(0, 0, days-1).Format(domain.DateFormat),
					AppointmentType: "consultation",
					MaxAppointments: gofakeit.Number(1, 3),
				})
				if err != nil {
					return fmt.Errorf("seed slots for provider %s: %w", providerID, err)
				}
				totalSlots += len(batch.Accepted)

				if len(batch.Accepted) == 0 {
					continue
				}
				for j := 0; j < bookings; j++ {
					slot := batch.Accepted[gofakeit.Number(0, len(batch.Accepted)-1)]
					slotID, err := uuid.Parse(slot.ID)
					if err != nil {
						return err
					}

					phone := gofakeit.Phone()
					_, err = application.BookSlot.Execute(ctx, &bookSlotUC.Request{
						SlotID:       slotID,
						PatientID:    uuid.New(),
						PatientName:  gofakeit.Name(),
						PatientEmail: gofakeit.Email(),
						PatientPhone: &phone,
						Reason:       demoReasons[gofakeit.Number(0, len(demoReasons)-1)],
					})
					if err != nil {
						rt.log.Warn("seed: booking skipped for slot %s: %v", slotID, err)
						continue
					}
					totalBookings++
				}

				rt.log.Info("seed: provider %s ready", providerID)
			}

			fmt.Fprintf(os.Stdout, "seeded providers=%d slots=%d bookings=%d\n", providers, totalSlots, totalBookings)
			return nil
		},
	}

	cmd.Flags().IntVar(&providers, "providers", 3, "Number of demo providers")
	cmd.Flags().IntVar(&days, "days", 14, "Number of days to generate slots for")
	cmd.Flags().IntVar(&bookings, "bookings", 10, "Booking attempts per provider")

	return cmd
}

var demoReasons = []string{
	"Routine check-up",
	"Follow-up after treatment",
	"Persistent headache",
	"Prescription renewal",
	"Lab results review",
}

// demoSchedule будни 09:00-17:00 с обедом 12:00-13:00
func demoSchedule(timezone string) *scheduleModels.UpsertScheduleRequest {
	breakStart, breakEnd := "12:00", "13:00"
	workday := scheduleModels.DaySchedule{
		IsWorkingDay:     true,
		StartTime:        "09:00",
		EndTime:          "17:00",
		BreakStart:       &breakStart,
		BreakEnd:         &breakEnd,
		AppointmentTypes: []string{"consultation", "follow_up"},
	}

	weekdays := make(map[string]scheduleModels.DaySchedule, 7)
	for _, name := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		weekdays[name] = workday
	}
	weekdays["saturday"] = scheduleModels.DaySchedule{IsWorkingDay: false}
	weekdays["sunday"] = scheduleModels.DaySchedule{IsWorkingDay: false}

	return &scheduleModels.UpsertScheduleRequest{
		Weekdays:             weekdays,
		Timezone:             timezone,
		DefaultSlotDuration:  30,
		DefaultBreakDuration: 10,
		WorkingHours:         scheduleModels.WorkingHours{StartTime: "09:00", EndTime: "17:00"},
	}
}
