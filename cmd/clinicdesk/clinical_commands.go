package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicdesk/internal/domain/admission"
	"github.com/clinicdesk/clinicdesk/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk/internal/domain/billing"
	"github.com/clinicdesk/clinicdesk/internal/domain/consultation"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/domain/pharmacy"
	"github.com/clinicdesk/clinicdesk/internal/domain/vaccination"
)

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func newPatientCommand() *cobra.Command {
	pc := &cobra.Command{
		Use:   "patient",
		Short: "Register and look up patients",
	}
	pc.AddCommand(newPatientRegisterCommand(), newPatientSearchCommand(), newPatientShowCommand())
	return pc
}

func newPatientRegisterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a patient record and print its file number",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}

			f := cmd.Flags()
			reg := &patient.CreatePatientCommand{}
			reg.LastName, _ = f.GetString("last-name")
			reg.FirstName, _ = f.GetString("first-name")
			reg.BirthDate, _ = f.GetString("birth-date")
			reg.Phone, _ = f.GetString("phone")
			reg.Address, _ = f.GetString("address")
			reg.NationalID, _ = f.GetString("national-id")
			reg.GuardianID, _ = f.GetString("guardian-id")
			reg.FatherName, _ = f.GetString("father")
			reg.MotherName, _ = f.GetString("mother")
			reg.BloodGroup, _ = f.GetString("blood-group")
			reg.Allergies, _ = f.GetString("allergies")
			reg.Email, _ = f.GetString("email")
			sex, _ := f.GetString("sex")
			reg.Sex = patient.Sex(sex)
			category, _ := f.GetString("category")
			reg.Category = patient.Category(category)

			p, err := a.patients.Register(cmd.Context(), reg, sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Patient %s registered with file number %s.\n", p.FullName(), p.FileNumber)
			return nil
		}),
	}

	cmd.Flags().String("last-name", "", "last name")
	cmd.Flags().String("first-name", "", "first name")
	cmd.Flags().String("birth-date", "", "birth date, DD/MM/YYYY")
	cmd.Flags().String("sex", "", "M or F")
	cmd.Flags().String("phone", "", "phone number")
	cmd.Flags().String("address", "", "home address")
	cmd.Flags().String("category", string(patient.CategoryAdult), "adult or child")
	cmd.Flags().String("national-id", "", "national ID, 12 digits (adult)")
	cmd.Flags().String("guardian-id", "", "guardian's national ID, 12 digits (child)")
	cmd.Flags().String("father", "", "father's name (child)")
	cmd.Flags().String("mother", "", "mother's name (child)")
	cmd.Flags().String("blood-group", "", "blood group")
	cmd.Flags().String("allergies", "", "known allergies")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("token", "", "session token")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("birth-date")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func newPatientSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search by file number, name, phone or national ID",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			results, err := a.patients.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, p := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %-30s %-12s %s\n",
					p.FileNumber, p.FullName(), p.Phone, p.Category)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d patient(s) found.\n", len(results))
			return nil
		}),
	}
}

func newPatientShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file-number>",
		Short: "Print a patient's record, consultations and vaccinations",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			out := cmd.OutOrStdout()
			p, err := a.patients.GetByFileNumber(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s, %d years, %s\n", p.FileNumber, p.FullName(), p.Age(), p.Category)
			fmt.Fprintf(out, "Phone: %s  Blood group: %s\n", p.Phone, p.BloodGroup)

			consults, err := a.consults.History(cmd.Context(), p.FileNumber)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nConsultations (%d):\n", len(consults))
			for _, c := range consults {
				fmt.Fprintf(out, "  %s  %s: %s\n", c.CreatedAt.Format("02/01/2006"), c.Reason, c.Diagnosis)
			}

			vaccines, err := a.vaccines.History(cmd.Context(), p.FileNumber)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nVaccinations (%d):\n", len(vaccines))
			for _, v := range vaccines {
				fmt.Fprintf(out, "  %s  %s dose %s\n", v.AdministeredAt.Format("02/01/2006"), v.Vaccine, v.Dose)
			}
			return nil
		}),
	}
}

func newConsultationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consult <file-number>",
		Short: "Record a consultation",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}

			f := cmd.Flags()
			rec := &consultationFlags{}
			rec.reason, _ = f.GetString("reason")
			rec.diagnosis, _ = f.GetString("diagnosis")
			rec.notes, _ = f.GetString("notes")
			rec.bloodPressure, _ = f.GetString("bp")
			rec.temperature, _ = f.GetFloat64("temperature")
			rec.weight, _ = f.GetFloat64("weight")
			rec.height, _ = f.GetFloat64("height")
			rec.pulse, _ = f.GetInt("pulse")

			c, err := a.consults.Record(cmd.Context(), rec.command(args[0]), sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Consultation %d recorded", c.ID)
			if c.BMI != nil {
				fmt.Fprintf(cmd.OutOrStdout(), " (BMI %.1f)", *c.BMI)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ".")
			return nil
		}),
	}

	cmd.Flags().String("reason", "", "reason for the visit")
	cmd.Flags().String("diagnosis", "", "diagnosis")
	cmd.Flags().String("notes", "", "notes")
	cmd.Flags().Float64("temperature", 0, "temperature in Celsius")
	cmd.Flags().String("bp", "", "blood pressure, e.g. 120/80")
	cmd.Flags().Float64("weight", 0, "weight in kg")
	cmd.Flags().Float64("height", 0, "height in cm")
	cmd.Flags().Int("pulse", 0, "pulse in bpm")
	cmd.Flags().String("token", "", "session token")
	_ = cmd.MarkFlagRequired("reason")
	_ = cmd.MarkFlagRequired("diagnosis")
	return cmd
}

// consultationFlags collects the optional vitals; zero means the
// measurement was not taken.
type consultationFlags struct {
	reason, diagnosis, notes, bloodPressure string
	temperature, weight, height             float64
	pulse                                   int
}

func (c *consultationFlags) command(fileNumber string) *consultation.CreateConsultationCommand {
	cmd := &consultation.CreateConsultationCommand{
		PatientFileNumber: fileNumber,
		Reason:            c.reason,
		Diagnosis:         c.diagnosis,
		Notes:             c.notes,
		BloodPressure:     c.bloodPressure,
	}
	if c.temperature > 0 {
		cmd.TemperatureC = &c.temperature
	}
	if c.weight > 0 {
		cmd.WeightKg = &c.weight
	}
	if c.height > 0 {
		cmd.HeightCm = &c.height
	}
	if c.pulse > 0 {
		cmd.PulseBPM = &c.pulse
	}
	return cmd
}

func newAdmitCommand() *cobra.Command {
	var roomNumber, bed, reason string

	cmd := &cobra.Command{
		Use:   "admit <file-number>",
		Short: "Open a hospitalization stay",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			stay, err := a.admissions.Admit(cmd.Context(), &admission.AdmitCommand{
				PatientFileNumber: args[0],
				RoomNumber:        roomNumber,
				Bed:               bed,
				Reason:            reason,
			}, sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stay %d opened for %s.\n", stay.ID, args[0])
			return nil
		}),
	}
	cmd.Flags().StringVar(&roomNumber, "room", "", "room number (optional)")
	cmd.Flags().StringVar(&bed, "bed", "", "bed label")
	cmd.Flags().StringVar(&reason, "reason", "", "admission reason")
	cmd.Flags().String("token", "", "session token")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func newDischargeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discharge <file-number>",
		Short: "Close the patient's ongoing stay",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			stay, err := a.admissions.Discharge(cmd.Context(), args[0], sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stay %d closed, admitted %s.\n",
				stay.ID, stay.AdmittedAt.Format("02/01/2006"))
			return nil
		}),
	}
	cmd.Flags().String("token", "", "session token")
	return cmd
}

func newAppointmentCommand() *cobra.Command {
	ac := &cobra.Command{
		Use:   "appointment",
		Short: "Schedule and manage appointments",
	}

	var date, at, reason string
	schedule := &cobra.Command{
		Use:   "schedule <file-number>",
		Short: "Book a (date, time) slot",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			appt, err := a.appts.Schedule(cmd.Context(), &appointment.ScheduleCommand{
				PatientFileNumber: args[0],
				Date:              date,
				Time:              at,
				Reason:            reason,
			}, sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appointment %d on %s at %s.\n", appt.ID, appt.Date, appt.Time)
			return nil
		}),
	}
	schedule.Flags().StringVar(&date, "date", "", "date, DD/MM/YYYY")
	schedule.Flags().StringVar(&at, "time", "", "time, HH:MM")
	schedule.Flags().StringVar(&reason, "reason", "", "reason")
	schedule.Flags().String("token", "", "session token")
	_ = schedule.MarkFlagRequired("date")
	_ = schedule.MarkFlagRequired("time")

	cancel := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a scheduled appointment",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.appts.Cancel(cmd.Context(), id, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appointment %d cancelled.\n", id)
			return nil
		}),
	}
	cancel.Flags().String("token", "", "session token")

	complete := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a scheduled appointment completed",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.appts.Complete(cmd.Context(), id, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appointment %d completed.\n", id)
			return nil
		}),
	}
	complete.Flags().String("token", "", "session token")

	agenda := &cobra.Command{
		Use:   "agenda <date>",
		Short: "List a day's appointments (date DD/MM/YYYY)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			day, err := a.appts.Agenda(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, x := range day {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  #%d patient %d  %-10s %s\n",
					x.Time, x.ID, x.PatientID, x.Status, x.Reason)
			}
			return nil
		}),
	}

	ac.AddCommand(schedule, cancel, complete, agenda)
	return ac
}

func newInvoiceCommand() *cobra.Command {
	ic := &cobra.Command{
		Use:   "invoice",
		Short: "Create invoices and register payments",
	}

	var kind string
	var billed float64
	create := &cobra.Command{
		Use:   "create <file-number>",
		Short: "Open an invoice for a patient",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			inv, err := a.billing.CreateInvoice(cmd.Context(), &billing.CreateInvoiceCommand{
				PatientFileNumber: args[0],
				Kind:              kind,
				Billed:            billed,
			}, sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Invoice %s: %.0f billed, status %s.\n", inv.Number, inv.Billed, inv.Status)
			return nil
		}),
	}
	create.Flags().StringVar(&kind, "kind", "consultation", "invoice kind")
	create.Flags().Float64Var(&billed, "amount", 0, "billed amount")
	create.Flags().String("token", "", "session token")
	_ = create.MarkFlagRequired("amount")

	var amount float64
	var mode string
	pay := &cobra.Command{
		Use:   "pay <number>",
		Short: "Register a payment on an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			inv, err := a.billing.RegisterPayment(cmd.Context(), &billing.RegisterPaymentCommand{
				InvoiceNumber: args[0],
				Amount:        amount,
				Mode:          billing.PaymentMode(mode),
			}, sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Invoice %s: paid %.0f, remaining %.0f, status %s.\n",
				inv.Number, inv.Paid, inv.Remaining, inv.Status)
			return nil
		}),
	}
	pay.Flags().Float64Var(&amount, "amount", 0, "payment amount")
	pay.Flags().StringVar(&mode, "mode", string(billing.ModeCash), "cash, card, cheque, mobile_money or transfer")
	pay.Flags().String("token", "", "session token")
	_ = pay.MarkFlagRequired("amount")

	unpaid := &cobra.Command{
		Use:   "unpaid",
		Short: "List invoices not yet fully paid",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			invoices, err := a.billing.ListUnpaid(cmd.Context())
			if err != nil {
				return err
			}
			for _, inv := range invoices {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  patient %d  remaining %.0f  %s\n",
					inv.Number, inv.PatientID, inv.Remaining, inv.Status)
			}
			return nil
		}),
	}

	ic.AddCommand(create, pay, unpaid)
	return ic
}

func newVaccineCommand() *cobra.Command {
	var vaccine, dose string
	var allowAdult bool

	cmd := &cobra.Command{
		Use:   "vaccine <file-number>",
		Short: "Record an administered vaccine dose",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			r, err := a.vaccines.Record(cmd.Context(), &vaccination.RecordCommand{
				PatientFileNumber: args[0],
				Vaccine:           vaccine,
				Dose:              dose,
				AllowAdult:        allowAdult,
			}, sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Vaccination %d recorded (%s).\n", r.ID, r.Vaccine)
			return nil
		}),
	}
	cmd.Flags().StringVar(&vaccine, "name", "", "vaccine name")
	cmd.Flags().StringVar(&dose, "dose", "", "dose label")
	cmd.Flags().BoolVar(&allowAdult, "allow-adult", false, "confirm a pediatric vaccine for an adult")
	cmd.Flags().String("token", "", "session token")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newMedCommand() *cobra.Command {
	mc := &cobra.Command{
		Use:   "med",
		Short: "Medication inventory",
	}

	var name, category, form, dosage, expires string
	var stock, threshold int
	var price float64
	add := &cobra.Command{
		Use:   "add <code>",
		Short: "Register an inventory item",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			m, err := a.pharmacy.AddMedication(cmd.Context(), &pharmacy.CreateMedicationCommand{
				Name:           name,
				Code:           args[0],
				Category:       category,
				Form:           form,
				Dosage:         dosage,
				Stock:          stock,
				AlertThreshold: threshold,
				UnitPrice:      price,
				ExpiresAt:      expires,
			}, sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Medication %s added, stock %d.\n", m.Code, m.Stock)
			return nil
		}),
	}
	add.Flags().StringVar(&name, "name", "", "medication name")
	add.Flags().StringVar(&category, "category", "", "category")
	add.Flags().StringVar(&form, "form", "", "form (tablet, syrup, ...)")
	add.Flags().StringVar(&dosage, "dosage", "", "dosage")
	add.Flags().IntVar(&stock, "stock", 0, "initial stock")
	add.Flags().IntVar(&threshold, "threshold", 0, "alert threshold")
	add.Flags().Float64Var(&price, "price", 0, "unit price")
	add.Flags().StringVar(&expires, "expires", "", "expiry date, DD/MM/YYYY")
	add.Flags().String("token", "", "session token")
	_ = add.MarkFlagRequired("name")

	var delta int
	adjust := &cobra.Command{
		Use:   "adjust <code>",
		Short: "Apply a signed stock delta",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			m, err := a.pharmacy.AdjustStock(cmd.Context(), args[0], delta, sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Medication %s stock is now %d.\n", m.Code, m.Stock)
			return nil
		}),
	}
	adjust.Flags().IntVar(&delta, "delta", 0, "signed quantity, e.g. -3 or 50")
	adjust.Flags().String("token", "", "session token")
	_ = adjust.MarkFlagRequired("delta")

	var consultID uint
	var qty, duration int
	var posology, presNotes string
	prescribe := &cobra.Command{
		Use:   "prescribe <code>",
		Short: "Attach a prescription line to a consultation and deduct stock",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			line, err := a.pharmacy.Prescribe(cmd.Context(), &pharmacy.PrescribeCommand{
				ConsultationID: consultID,
				MedicationCode: args[0],
				Quantity:       qty,
				Posology:       posology,
				DurationDays:   duration,
				Notes:          presNotes,
			}, sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Prescription line %d added to consultation %d.\n",
				line.ID, line.ConsultationID)
			return nil
		}),
	}
	prescribe.Flags().UintVar(&consultID, "consultation", 0, "consultation id")
	prescribe.Flags().IntVar(&qty, "quantity", 1, "units prescribed")
	prescribe.Flags().IntVar(&duration, "days", 0, "treatment duration in days")
	prescribe.Flags().StringVar(&posology, "posology", "", "dosage instructions")
	prescribe.Flags().StringVar(&presNotes, "notes", "", "notes")
	prescribe.Flags().String("token", "", "session token")
	_ = prescribe.MarkFlagRequired("consultation")

	low := &cobra.Command{
		Use:   "low",
		Short: "List medications at or under their alert threshold",
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			meds, err := a.pharmacy.LowStock(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range meds {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-30s stock %d / threshold %d\n",
					m.Code, m.Name, m.Stock, m.AlertThreshold)
			}
			return nil
		}),
	}

	mc.AddCommand(add, adjust, prescribe, low)
	return mc
}

func newRoomCommand() *cobra.Command {
	rc := &cobra.Command{
		Use:   "room",
		Short: "Room and bed inventory",
	}

	var roomType string
	var beds int
	var price float64
	add := &cobra.Command{
		Use:   "add <number>",
		Short: "Register a room (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			sess, err := sessionFromFlags(cmd, a)
			if err != nil {
				return err
			}
			room := &admission.Room{
				Number:      args[0],
				Type:        admission.RoomType(roomType),
				TotalBeds:   beds,
				PricePerDay: price,
			}
			if err := a.admissions.CreateRoom(cmd.Context(), room, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Room %s created with %d beds.\n", room.Number, room.TotalBeds)
			return nil
		}),
	}
	add.Flags().StringVar(&roomType, "type", string(admission.RoomWard), "single, double, ward or vip")
	add.Flags().IntVar(&beds, "beds", 1, "total beds")
	add.Flags().Float64Var(&price, "price", 0, "price per day")
	add.Flags().String("token", "", "session token")

	rc.AddCommand(add)
	return rc
}
