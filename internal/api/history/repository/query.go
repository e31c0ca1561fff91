package historyRepository

const (
	queryCreateDetection = `
INSERT INTO detection_history (id, filename, detection_type, result, confidence, file_url, created_at)
VALUES (:id, :filename, :detection_type, :result, :confidence, :file_url, :created_at)`

	queryListDetections = `
SELECT id, filename, detection_type, result, confidence, file_url, created_at
FROM detection_history
ORDER BY id DESC
LIMIT :limit`

	queryListDetectionsByType = `
SELECT id, filename, detection_type, result, confidence, file_url, created_at
FROM detection_history
    WHERE detection_type = :detection_type
ORDER BY id DESC
LIMIT :limit`

	queryListAllOrdered = `
SELECT id, filename, detection_type, result, confidence, file_url, created_at
FROM detection_history
ORDER BY id ASC`

	queryGetDetectionByID = `
SELECT id, filename, detection_type, result, confidence, file_url, created_at
FROM detection_history
    WHERE id = :id`

	queryDeleteDetection = `
DELETE FROM detection_history
WHERE id = :id`

	queryClearDetections = `
DELETE FROM detection_history`

	queryCountDetections = `
SELECT COUNT(*) FROM detection_history`

	queryCountByType = `
SELECT detection_type, COUNT(*) AS total
FROM detection_history
GROUP BY detection_type`

	queryCountSince = `
SELECT COUNT(*) FROM detection_history
WHERE created_at >= :since`
)
