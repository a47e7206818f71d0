package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/infrastructure/spreadsheet"
)

// IngestCmd sube una hoja de cálculo y espera a que el job termine.
func IngestCmd() *cobra.Command {
	var (
		apiURL  string
		token   string
		module  string
		mapping string
		noWait  bool
		maxWait time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ingest <archivo.xlsx|archivo.csv>",
		Short: "Carga masiva de registros desde XLSX o CSV",
		Long: `Lee la primera hoja del archivo (o el CSV), resuelve la columna de cliente
en el servidor y crea un job de ingesta. Por defecto consulta el estado con
espera exponencial hasta que el job termina.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir archivo: %w", err)
			}
			defer f.Close()

			rows, err := spreadsheet.Parse(args[0], f)
			if err != nil {
				return err
			}
			if mapping != "" {
				m, err := LoadColumnMapping(mapping)
				if err != nil {
					return err
				}
				m.Apply(rows)
				if module == "" {
					module = m.Module
				}
			}
			if module == "" {
				return fmt.Errorf("módulo requerido: --module o module en el mapeo")
			}
			fmt.Printf("%d filas leídas de %s\n", len(rows), args[0])

			ctx := cmd.Context()
			client := NewAPIClient(apiURL, token)
			job, err := client.Submit(ctx, dto.IngestionSubmitRequest{Module: module, Rows: rows})
			if err != nil {
				return err
			}
			fmt.Printf("Job %s creado (%d registros)\n", color.New(color.FgCyan).Sprint(job.JobID), job.TotalRecords)
			if noWait {
				return nil
			}

			ctx, cancel := context.WithTimeout(ctx, maxWait)
			defer cancel()
			final, err := Poll(ctx, client, job.JobID, Backoff{Initial: 500 * time.Millisecond, Max: 10 * time.Second}, printProgress)
			if err != nil {
				return err
			}
			printResult(final)
			if final.Status == entity.JobStatusFailed {
				return fmt.Errorf("job %s fallido", final.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", envOr("LOGCTL_API_URL", "http://localhost:8080"), "URL base de la API")
	cmd.Flags().StringVar(&token, "token", os.Getenv("LOGCTL_TOKEN"), "Bearer token")
	cmd.Flags().StringVarP(&module, "module", "m", "", "módulo: trucking, agency o shipchandler")
	cmd.Flags().StringVar(&mapping, "mapping", "", "archivo YAML que renombra columnas")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "no esperar a que el job termine")
	cmd.Flags().DurationVar(&maxWait, "timeout", 30*time.Minute, "espera máxima")
	return cmd
}

// StatusCmd muestra el estado de un job.
func StatusCmd() *cobra.Command {
	var apiURL, token string
	cmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Estado de un job de ingesta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := NewAPIClient(apiURL, token).Status(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printProgress(job)
			if job.ResultMessage != "" {
				printResult(job)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", envOr("LOGCTL_API_URL", "http://localhost:8080"), "URL base de la API")
	cmd.Flags().StringVar(&token, "token", os.Getenv("LOGCTL_TOKEN"), "Bearer token")
	return cmd
}

func printProgress(job *dto.IngestionJobResponse) {
	fmt.Printf("  [%3d%%] %s %d/%d\n", job.Progress, statusLabel(job.Status), job.ProcessedRecords, job.TotalRecords)
}

func printResult(job *dto.IngestionJobResponse) {
	fmt.Printf("%s %s\n", statusLabel(job.Status), job.ResultMessage)
}

func statusLabel(status string) string {
	switch status {
	case entity.JobStatusCompleted:
		return color.New(color.FgGreen).Sprint("COMPLETADO")
	case entity.JobStatusFailed:
		return color.New(color.FgRed).Sprint("FALLIDO")
	case entity.JobStatusProcessing:
		return color.New(color.FgYellow).Sprint("PROCESANDO")
	}
	return color.New(color.FgBlue).Sprint("PENDIENTE")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
