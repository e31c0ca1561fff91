package historyRepository

import (
	"SmartVision/internal/api/history"
	"SmartVision/internal/entity"
	contextPkg "SmartVision/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type DetectionRecordDB struct {
	ID            sql.NullString  `db:"id"`
	Filename      sql.NullString  `db:"filename"`
	DetectionType sql.NullString  `db:"detection_type"`
	Result        sql.NullString  `db:"result"`
	Confidence    sql.NullFloat64 `db:"confidence"`
	FileURL       sql.NullString  `db:"file_url"`
	CreatedAt     sql.NullTime    `db:"created_at"`
}

func (r *detectionRepository) makeRecord(row DetectionRecordDB) entity.DetectionRecord {
	return entity.DetectionRecord{
		ID:            row.ID.String,
		Filename:      row.Filename.String,
		DetectionType: entity.DetectionType(row.DetectionType.String),
		Result:        row.Result.String,
		Confidence:    row.Confidence.Float64,
		FileURL:       row.FileURL.String,
		CreatedAt:     row.CreatedAt.Time,
	}
}

func (r *detectionRepository) Create(c context.Context, record entity.DetectionRecord) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":             record.ID,
		"filename":       record.Filename,
		"detection_type": string(record.DetectionType),
		"result":         record.Result,
		"confidence":     record.Confidence,
		"file_url":       record.FileURL,
		"created_at":     record.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateDetection, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for Create")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating detection record")
		return err
	}

	return nil
}

func (r *detectionRepository) List(c context.Context, limit int, detectionType entity.DetectionType) ([]entity.DetectionRecord, error) {
	requestID := contextPkg.GetRequestID(c)

	baseQuery := queryListDetections
	argsKV := map[string]interface{}{
		"limit": limit,
	}
	if detectionType != "" {
		baseQuery = queryListDetectionsByType
		argsKV["detection_type"] = string(detectionType)
	}

	query, args, err := sqlx.Named(baseQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("List named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	rows, err := r.q.QueryxContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("List execution err")
		return nil, err
	}
	defer rows.Close()

	return r.scanRecords(rows, requestID)
}

func (r *detectionRepository) ListAllOrdered(c context.Context) ([]entity.DetectionRecord, error) {
	requestID := contextPkg.GetRequestID(c)

	rows, err := r.q.QueryxContext(c, r.q.Rebind(queryListAllOrdered))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListAllOrdered execution err")
		return nil, err
	}
	defer rows.Close()

	return r.scanRecords(rows, requestID)
}

func (r *detectionRepository) scanRecords(rows *sqlx.Rows, requestID string) ([]entity.DetectionRecord, error) {
	records := make([]entity.DetectionRecord, 0)
	for rows.Next() {
		var row DetectionRecordDB
		if err := rows.StructScan(&row); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to scan detection record")
			return nil, err
		}
		records = append(records, r.makeRecord(row))
	}

	return records, rows.Err()
}

func (r *detectionRepository) GetByID(c context.Context, id string) (entity.DetectionRecord, error) {
	requestID := contextPkg.GetRequestID(c)
	var row DetectionRecordDB

	query, args, err := sqlx.Named(queryGetDetectionByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID named query preparation err")
		return entity.DetectionRecord{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("GetByID no rows found")
			return entity.DetectionRecord{}, history.ErrRecordNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID execution err")
		return entity.DetectionRecord{}, err
	}

	return r.makeRecord(row), nil
}

func (r *detectionRepository) DeleteByID(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryDeleteDetection, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteByID named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteByID execution err")
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return history.ErrRecordNotFound
	}

	return nil
}

func (r *detectionRepository) Clear(c context.Context) error {
	requestID := contextPkg.GetRequestID(c)

	if _, err := r.q.ExecContext(c, r.q.Rebind(queryClearDetections)); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Clear execution err")
		return err
	}

	return nil
}

func (r *detectionRepository) CountAll(c context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(c, r.q, &count, r.q.Rebind(queryCountDetections)); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *detectionRepository) CountByType(c context.Context) (map[entity.DetectionType]int, error) {
	requestID := contextPkg.GetRequestID(c)

	rows, err := r.q.QueryxContext(c, r.q.Rebind(queryCountByType))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountByType execution err")
		return nil, err
	}
	defer rows.Close()

	counts := make(map[entity.DetectionType]int)
	for rows.Next() {
		var row struct {
			DetectionType string `db:"detection_type"`
			Total         int    `db:"total"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		counts[entity.DetectionType(row.DetectionType)] = row.Total
	}

	return counts, rows.Err()
}

func (r *detectionRepository) CountSince(c context.Context, since time.Time) (int, error) {
	query, args, err := sqlx.Named(queryCountSince, map[string]interface{}{"since": since})
	if err != nil {
		return 0, err
	}
	query = r.q.Rebind(query)

	var count int
	if err := sqlx.GetContext(c, r.q, &count, query, args...); err != nil {
		return 0, err
	}

	return count, nil
}
