package main

import (
	"log"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"databind/dataset"
	"databind/internal/debuglog"
	"databind/internal/settings"
	"databind/sqlprovider"
	"databind/ui"
	"databind/xmlio"
)

const settingsPath = "databind.yaml"

func main() {
	cfg, err := settings.Load(settingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	ds, err := loadDataSet(cfg)
	if err != nil {
		log.Fatalf("Failed to build dataset: %v", err)
	}

	a := fyneapp.New()
	window := a.NewWindow("Contacts")
	window.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))

	// Providers apply loaded rows through this runner so table mutations
	// land on the UI thread.
	ds.SetUIRunner(fyne.Do)

	var sql *sqlprovider.Provider
	if dsn := cfg.Data.PostgresDSN; dsn != "" {
		sql = sqlprovider.New(dsn)
		if err := sql.Open(); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer debuglog.RunAndLog("close database", sql.Close)
		ds.Table("contacts").SetProvider(sql)
		ds.Load()
	}

	if _, err := ui.NewApp(window, ds, func() error {
		if sql != nil {
			ds.SaveAndWait()
			return nil
		}
		return saveXML(ds, cfg.Data.XMLPath)
	}); err != nil {
		log.Fatalf("Failed to build UI: %v", err)
	}

	window.ShowAndRun()
}

// loadDataSet builds the dataset from the configured schema file, falls
// back to a built-in contacts schema, and loads any saved XML data.
func loadDataSet(cfg *settings.Settings) (*dataset.DataSet, error) {
	var ds *dataset.DataSet
	if path := cfg.Data.SchemaPath; path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		ds, err = xmlio.LoadSchema(raw)
		if err != nil {
			return nil, err
		}
	} else {
		ds = defaultDataSet()
	}

	if path := cfg.Data.XMLPath; path != "" {
		f, err := os.Open(path)
		if err == nil {
			defer debuglog.CloseWithLog("contacts xml", f)
			if err := xmlio.ReadXML(ds, f); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return ds, nil
}

// defaultDataSet is the schema used when none is configured.
func defaultDataSet() *dataset.DataSet {
	ds := dataset.New()
	contacts := ds.CreateTable("contacts")
	name := contacts.CreateColumn("name", dataset.TypeOf(""))
	name.SetKey(true)
	contacts.CreateColumn("city", dataset.TypeOf(""))
	contacts.CreateColumn("active", dataset.TypeOf(false))
	return ds
}

func saveXML(ds *dataset.DataSet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := xmlio.WriteXML(ds, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
