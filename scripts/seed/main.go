package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nadart/gallery/internal/db"
	"github.com/nadart/gallery/internal/service"
	"github.com/nadart/gallery/internal/storage"
	"gorm.io/gorm"
)

// Seeds the database with the admin account, the main gallery and the default
// resume sections. Safe to run repeatedly: existing rows are left alone.
func main() {
	var dbPath string
	var uploadDir string
	var adminEmail string
	var adminPassword string
	flag.StringVar(&dbPath, "db", "data/nadart.db", "sqlite db path")
	flag.StringVar(&uploadDir, "uploads", "resources/galleries", "gallery upload directory")
	flag.StringVar(&adminEmail, "email", "nadart.galery@gmail.com", "admin email")
	flag.StringVar(&adminPassword, "password", "changeme123", "initial admin password")
	flag.Parse()

	if err := db.Init(dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "init db: %v\n", err)
		os.Exit(1)
	}

	if err := db.EnsureAdmin(adminEmail, adminPassword); err != nil {
		fmt.Fprintf(os.Stderr, "ensure admin: %v\n", err)
		os.Exit(1)
	}

	store := storage.NewImageStore(uploadDir)
	if err := seedMainGallery(store); err != nil {
		fmt.Fprintf(os.Stderr, "seed main gallery: %v\n", err)
		os.Exit(1)
	}

	if err := seedResume(); err != nil {
		fmt.Fprintf(os.Stderr, "seed resume: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("done")
}

func seedMainGallery(store *storage.ImageStore) error {
	var existing db.Gallery
	err := db.DB.Where("is_main = ?", true).First(&existing).Error
	if err == nil {
		return store.EnsureGalleryFolders(existing.FolderName)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	galleries := service.NewGalleryService(db.DB, store)
	_, err = galleries.Create(service.GalleryInput{
		Name:   "Main Gallery",
		Slug:   "main",
		IsMain: true,
	})
	return err
}

func seedResume() error {
	resume := service.NewResumeService(db.DB)

	sections := []struct {
		key     string
		content string
	}{
		{"intro", "Artist and painter."},
		{"artist_statement", "My work explores color, texture and light."},
		{"contact", "nadart.galery@gmail.com"},
	}
	for _, section := range sections {
		if _, err := resume.GetContent(section.key); err == nil {
			continue
		} else if !errors.Is(err, service.ErrResumeContentNotFound) {
			return err
		}
		if _, err := resume.UpsertContent(section.key, section.content); err != nil {
			return err
		}
	}

	timeline, err := resume.Timeline()
	if err != nil {
		return err
	}
	if len(timeline) == 0 {
		items := []string{"Solo exhibition"}
		if _, err := resume.CreateTimelineEntry(service.TimelineInput{
			DateRange:   "2024 - Present",
			Title:       "Independent Artist",
			Description: "Full-time studio practice.",
			Items:       &items,
		}); err != nil {
			return err
		}
	}

	expertise, err := resume.Expertise()
	if err != nil {
		return err
	}
	if len(expertise) == 0 {
		defaults := []service.ExpertiseInput{
			{Icon: "palette", Title: "Oil Painting", Description: "Classical and contemporary oil techniques."},
			{Icon: "brush", Title: "Watercolor", Description: "Landscape and portrait watercolors."},
		}
		for _, input := range defaults {
			if _, err := resume.CreateExpertiseArea(input); err != nil {
				return err
			}
		}
	}

	return nil
}
