package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/easysell/recon_backend/config"
	"github.com/easysell/recon_backend/directory"
	"github.com/easysell/recon_backend/mailer"
	"github.com/easysell/recon_backend/models"
	"github.com/easysell/recon_backend/recon"
	"github.com/easysell/recon_backend/sheets"
	"github.com/easysell/recon_backend/utils"
	"github.com/easysell/recon_backend/workflow"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func main() {
	logger := config.GetLogger()
	opts := config.GetOptions()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	store := directory.NewStore(filepath.Join(opts.DataDir, "party_emails.json"))

	// The dedup table is opportunistic: without a DSN (or with a broken
	// one) dispatching simply never skips.
	var dedup mailer.DedupStore = mailer.NopDedup{}
	if opts.DedupDSN != "" {
		if err := config.ConnectDedupDatabase(opts.DedupDSN); err != nil {
			logger.Warnf("dedup store disabled: %v", err)
		} else if g, err := mailer.NewGormDedup(config.GetDB()); err != nil {
			logger.Warnf("dedup store disabled: %v", err)
		} else {
			dedup = g
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "X-Admin-Secret")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.GET("/samples/invoices", sampleHandler(sheets.BuildSampleInvoiceWorkbook, "SampleInvoices.xlsx"))
	r.GET("/samples/directory", sampleHandler(sheets.BuildSampleDirectoryWorkbook, "SampleMail.xlsx"))

	r.GET("/directory", listDirectoryHandler(store))
	r.POST("/directory/upload", uploadDirectoryHandler(store))
	r.PUT("/directory/:code", updateDirectoryHandler(store))

	r.POST("/runs", runHandler(store, dedup))
	r.POST("/runs/preview", previewHandler(store))

	r.GET("/logs/final", func(c *gin.Context) {
		c.FileAttachment(filepath.Join(opts.DataDir, workflow.AuditLogName), workflow.AuditLogName)
	})
	r.GET("/logs/final.xlsx", logExportHandler(opts.DataDir))

	srv := &http.Server{
		Addr:    ":" + opts.Port,
		Handler: r,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()
	logger.WithFields(logrus.Fields{"port": opts.Port}).Info("server listening")

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	case <-sigCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("graceful shutdown failed: %v", err)
		}
	}
}

func sampleHandler(build func() ([]byte, error), filename string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := build()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, xlsxContentType, data)
	}
}

func listDirectoryHandler(store *directory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := store.Load()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// requireAdminSecret gates directory mutations on the shared secret. A
// mismatch refuses the operation with no partial effect.
func requireAdminSecret(c *gin.Context, secret string) bool {
	hash := config.GetOptions().AdminSecretHash
	if hash == "" || utils.CompareSecret(hash, secret) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": directory.ErrUnauthorized.Error()})
		return false
	}
	return true
}

func uploadDirectoryHandler(store *directory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdminSecret(c, c.GetHeader("X-Admin-Secret")) {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing workbook upload"})
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()

		entries, missingEmails, err := directory.ParseWorkbook(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := store.Save(entries); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"updated":       len(entries),
			"missingEmails": missingEmails,
		})
	}
}

type updateEmailsRequest struct {
	Secret string `json:"secret" binding:"required"`
	Emails string `json:"emails" binding:"required"`
}

func updateDirectoryHandler(store *directory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateEmailsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !requireAdminSecret(c, req.Secret) {
			return
		}
		if err := store.Update(c.Param("code"), req.Emails); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": c.Param("code")})
	}
}

type runRequest struct {
	SMTPUser     string `form:"smtp_user" binding:"required,email"`
	SMTPPassword string `form:"smtp_password" binding:"required"`
}

func runHandler(store *directory.Store, dedup mailer.DedupStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := config.GetOptions()

		var req runRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing workbook upload"})
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()

		sender := &mailer.SMTPSender{
			Host:     opts.SMTPHost,
			Port:     opts.SMTPPort,
			Username: req.SMTPUser,
			Password: req.SMTPPassword,
		}

		summary, err := workflow.Run(f, store, sender, dedup, workflow.RunOptions{
			MatchKey:  models.MatchKey(opts.MatchKey),
			RowPolicy: models.RowPolicy(opts.RowPolicy),
			Delay:     time.Duration(opts.DispatchDelaySeconds) * time.Second,
			From:      req.SMTPUser,
			DataDir:   opts.DataDir,
		})
		if err != nil {
			status := http.StatusInternalServerError
			var schemaErr *sheets.SchemaError
			if errors.As(err, &schemaErr) {
				status = http.StatusUnprocessableEntity
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// previewHandler runs normalize + match only and returns the party-wise
// workbook, so the operator can inspect what would be mailed.
func previewHandler(store *directory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := config.GetOptions()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing workbook upload"})
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()

		normalized, err := sheets.Normalize(f)
		if err != nil {
			status := http.StatusInternalServerError
			var schemaErr *sheets.SchemaError
			if errors.As(err, &schemaErr) {
				status = http.StatusUnprocessableEntity
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		contacts, err := store.Load()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		matcher := recon.NewMatcher(models.MatchKey(opts.MatchKey), models.RowPolicy(opts.RowPolicy))
		ready, _, _ := matcher.Match(normalized.Payments, normalized.Notes, contacts)

		data, err := sheets.BuildPartywiseWorkbook(ready)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		filename := "All_Partywise_Payments_" + time.Now().Format("2006-01-02_15-04-05") + ".xlsx"
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, xlsxContentType, data)
	}
}

func logExportHandler(dataDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := os.Open(filepath.Join(dataDir, workflow.AuditLogName))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no audit log yet"})
			return
		}
		defer f.Close()

		data, err := mailer.BuildLogWorkbook(f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		filename := "FinalEmailLog_" + time.Now().Format("2006-01-02_15-04-05") + ".xlsx"
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, xlsxContentType, data)
	}
}
