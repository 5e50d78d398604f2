package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"fijicarhire/internal/db"
)

type VehicleRepository struct {
	DB *sql.DB
}

func NewVehicleRepository(database *sql.DB) *VehicleRepository {
	return &VehicleRepository{DB: database}
}

func (r *VehicleRepository) ListVehicles() ([]db.Vehicle, error) {
	rows, err := r.DB.Query(`SELECT id, title, COALESCE(plate, '') FROM vehicles ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("error listing vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		var v db.Vehicle
		if err := rows.Scan(&v.ID, &v.Title, &v.Plate); err != nil {
			return nil, fmt.Errorf("error scanning vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *VehicleRepository) GetVehicle(id string) (*db.Vehicle, error) {
	var v db.Vehicle
	err := r.DB.QueryRow(`SELECT id, title, COALESCE(plate, '') FROM vehicles WHERE id = $1`, id).
		Scan(&v.ID, &v.Title, &v.Plate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying vehicle %s: %w", id, err)
	}
	return &v, nil
}
