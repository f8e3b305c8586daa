package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UserCertificateModel sertifikat kelulusan satu peserta di satu branch (sekali terbit).
type UserCertificateModel struct {
	UserCertID          uuid.UUID      `json:"user_cert_id" gorm:"column:user_cert_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserCertUserID      uuid.UUID      `json:"user_cert_user_id" gorm:"column:user_cert_user_id;type:uuid;not null;uniqueIndex:uq_user_cert_user_branch"`
	UserCertBranchID    uuid.UUID      `json:"user_cert_branch_id" gorm:"column:user_cert_branch_id;type:uuid;not null;uniqueIndex:uq_user_cert_user_branch"`
	UserCertUserName    string         `json:"user_cert_user_name" gorm:"column:user_cert_user_name;type:varchar(150);not null"`
	UserCertSerial      string         `json:"user_cert_serial" gorm:"column:user_cert_serial;type:varchar(40);unique;not null"`
	UserCertNotaGlobal  float64        `json:"user_cert_nota_global" gorm:"column:user_cert_nota_global;type:numeric(5,2);not null"`
	UserCertBlockLabels pq.StringArray `json:"user_cert_block_labels" gorm:"column:user_cert_block_labels;type:text[];not null;default:'{}'"`
	UserCertFileURL     *string        `json:"user_cert_file_url,omitempty" gorm:"column:user_cert_file_url;type:text"`
	UserCertIssuedAt    time.Time      `json:"user_cert_issued_at" gorm:"column:user_cert_issued_at;not null"`
	CreatedAt           time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (UserCertificateModel) TableName() string {
	return "user_certificates"
}
