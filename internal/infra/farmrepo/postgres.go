package farmrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cropwise/fieldadvisor/internal/domain/farm"
)

// PostgresRepository persists farm records in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) CreateFarm(ctx context.Context, f farm.Farm) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO farms (id, owner_id, name, latitude, longitude, area_hectares, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, f.ID, f.OwnerID, f.Name, f.Latitude, f.Longitude, f.AreaHectares, f.CreatedAt, f.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetFarm(ctx context.Context, id uuid.UUID) (farm.Farm, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, latitude, longitude, area_hectares, created_at, updated_at
		FROM farms WHERE id = $1
	`, id)
	var f farm.Farm
	if err := row.Scan(&f.ID, &f.OwnerID, &f.Name, &f.Latitude, &f.Longitude, &f.AreaHectares, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return farm.Farm{}, false, nil
		}
		return farm.Farm{}, false, err
	}
	return f, true, nil
}

// ListFarms returns every farm when ownerID is zero.
func (r *PostgresRepository) ListFarms(ctx context.Context, ownerID int64) ([]farm.Farm, error) {
	query := `
		SELECT id, owner_id, name, latitude, longitude, area_hectares, created_at, updated_at
		FROM farms
	`
	args := []any{}
	if ownerID != 0 {
		query += ` WHERE owner_id = $1`
		args = append(args, ownerID)
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []farm.Farm
	for rows.Next() {
		var f farm.Farm
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Name, &f.Latitude, &f.Longitude, &f.AreaHectares, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateFarm(ctx context.Context, f farm.Farm) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE farms SET name = $1, latitude = $2, longitude = $3, area_hectares = $4, updated_at = $5
		WHERE id = $6
	`, f.Name, f.Latitude, f.Longitude, f.AreaHectares, f.UpdatedAt, f.ID)
	return err
}

func (r *PostgresRepository) DeleteFarm(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM farms WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) CreatePlant(ctx context.Context, p farm.Plant) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO plants (id, farm_id, name, species, care_text, planted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.FarmID, p.Name, p.Species, p.CareText, p.PlantedAt, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetPlant(ctx context.Context, farmID, id uuid.UUID) (farm.Plant, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, farm_id, name, species, care_text, planted_at, created_at, updated_at
		FROM plants WHERE id = $1 AND farm_id = $2
	`, id, farmID)
	var p farm.Plant
	if err := row.Scan(&p.ID, &p.FarmID, &p.Name, &p.Species, &p.CareText, &p.PlantedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return farm.Plant{}, false, nil
		}
		return farm.Plant{}, false, err
	}
	return p, true, nil
}

func (r *PostgresRepository) ListPlants(ctx context.Context, farmID uuid.UUID) ([]farm.Plant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, farm_id, name, species, care_text, planted_at, created_at, updated_at
		FROM plants WHERE farm_id = $1 ORDER BY created_at
	`, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []farm.Plant
	for rows.Next() {
		var p farm.Plant
		if err := rows.Scan(&p.ID, &p.FarmID, &p.Name, &p.Species, &p.CareText, &p.PlantedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdatePlant(ctx context.Context, p farm.Plant) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE plants SET name = $1, species = $2, care_text = $3, planted_at = $4, updated_at = $5
		WHERE id = $6 AND farm_id = $7
	`, p.Name, p.Species, p.CareText, p.PlantedAt, p.UpdatedAt, p.ID, p.FarmID)
	return err
}

func (r *PostgresRepository) DeletePlant(ctx context.Context, farmID, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM plants WHERE id = $1 AND farm_id = $2`, id, farmID)
	return err
}

func (r *PostgresRepository) CreateSpray(ctx context.Context, s farm.SprayRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO spray_records (id, farm_id, plant_id, product, dose_per_ha, sprayed_at, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.FarmID, s.PlantID, s.Product, s.DosePerHa, s.SprayedAt, s.Notes, s.CreatedAt)
	return err
}

func (r *PostgresRepository) ListSprays(ctx context.Context, farmID uuid.UUID) ([]farm.SprayRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, farm_id, plant_id, product, dose_per_ha, sprayed_at, notes, created_at
		FROM spray_records WHERE farm_id = $1 ORDER BY sprayed_at
	`, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []farm.SprayRecord
	for rows.Next() {
		var s farm.SprayRecord
		if err := rows.Scan(&s.ID, &s.FarmID, &s.PlantID, &s.Product, &s.DosePerHa, &s.SprayedAt, &s.Notes, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) DeleteSpray(ctx context.Context, farmID, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM spray_records WHERE id = $1 AND farm_id = $2`, id, farmID)
	return err
}

func (r *PostgresRepository) CreateWeatherRecord(ctx context.Context, w farm.WeatherRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO weather_records (id, farm_id, recorded_at, temperature, humidity, pressure, wind_speed, precipitation, advisory, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, w.ID, w.FarmID, w.RecordedAt, w.Temperature, w.Humidity, w.Pressure, w.WindSpeed, w.Precipitation, w.Advisory, w.Status, w.CreatedAt, w.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetWeatherRecord(ctx context.Context, farmID, id uuid.UUID) (farm.WeatherRecord, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, farm_id, recorded_at, temperature, humidity, pressure, wind_speed, precipitation, advisory, status, created_at, updated_at
		FROM weather_records WHERE id = $1 AND farm_id = $2
	`, id, farmID)
	var w farm.WeatherRecord
	if err := row.Scan(&w.ID, &w.FarmID, &w.RecordedAt, &w.Temperature, &w.Humidity, &w.Pressure, &w.WindSpeed, &w.Precipitation, &w.Advisory, &w.Status, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return farm.WeatherRecord{}, false, nil
		}
		return farm.WeatherRecord{}, false, err
	}
	return w, true, nil
}

func (r *PostgresRepository) ListWeatherRecords(ctx context.Context, farmID uuid.UUID) ([]farm.WeatherRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, farm_id, recorded_at, temperature, humidity, pressure, wind_speed, precipitation, advisory, status, created_at, updated_at
		FROM weather_records WHERE farm_id = $1 ORDER BY recorded_at
	`, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []farm.WeatherRecord
	for rows.Next() {
		var w farm.WeatherRecord
		if err := rows.Scan(&w.ID, &w.FarmID, &w.RecordedAt, &w.Temperature, &w.Humidity, &w.Pressure, &w.WindSpeed, &w.Precipitation, &w.Advisory, &w.Status, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateWeatherRecord(ctx context.Context, w farm.WeatherRecord) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE weather_records
		SET recorded_at = $1, temperature = $2, humidity = $3, pressure = $4, wind_speed = $5, precipitation = $6, advisory = $7, status = $8, updated_at = $9
		WHERE id = $10 AND farm_id = $11
	`, w.RecordedAt, w.Temperature, w.Humidity, w.Pressure, w.WindSpeed, w.Precipitation, w.Advisory, w.Status, w.UpdatedAt, w.ID, w.FarmID)
	return err
}

func (r *PostgresRepository) DeleteWeatherRecord(ctx context.Context, farmID, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM weather_records WHERE id = $1 AND farm_id = $2`, id, farmID)
	return err
}

var _ farm.Repository = (*PostgresRepository)(nil)
