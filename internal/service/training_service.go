// FILE: internal/service/training_service.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/constant"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/dto"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/model"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/contract"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/specification"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/events"
	pktNats "github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/nats"

	"github.com/google/uuid"
)

type ITrainingService interface {
	Create(ctx context.Context, req *dto.CreateTrainingPairRequest) (*dto.TrainingPairResponse, error)
	Update(ctx context.Context, req *dto.UpdateTrainingPairRequest) (*dto.TrainingPairResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, category string, limit, offset int) (*dto.ListTrainingPairsResponse, error)
	Export(ctx context.Context) ([]*dto.TrainingPairResponse, error)
	// FindAnswer returns a stored answer for the question, when one exists.
	// The chat service consults it before running the retrieval pipeline.
	FindAnswer(ctx context.Context, question string) (string, bool)
	Seed(ctx context.Context) (int, error)
}

type trainingService struct {
	repo    contract.TrainingRepository
	natsPub *pktNats.Publisher // nil when the event bus is down
}

func NewTrainingService(repo contract.TrainingRepository, natsPub *pktNats.Publisher) ITrainingService {
	return &trainingService{
		repo:    repo,
		natsPub: natsPub,
	}
}

// CategorizeQuestion assigns a category from the keyword rules; unmatched
// questions land in "umum".
func CategorizeQuestion(question string) string {
	lower := strings.ToLower(question)
	for _, rule := range constant.CategoryRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Category
			}
		}
	}
	return constant.CategoryUmum
}

func (s *trainingService) Create(ctx context.Context, req *dto.CreateTrainingPairRequest) (*dto.TrainingPairResponse, error) {
	category := req.Category
	if category == "" {
		category = CategorizeQuestion(req.Question)
	}

	pair := &model.TrainingPair{
		Id:           uuid.New(),
		Question:     strings.TrimSpace(req.Question),
		Answer:       strings.TrimSpace(req.Answer),
		Category:     category,
		QualityScore: req.QualityScore,
		Source:       "manual",
	}

	if err := s.repo.Create(ctx, pair); err != nil {
		return nil, err
	}

	s.publishPairAdded(ctx, pair)

	return toTrainingPairResponse(pair), nil
}

func (s *trainingService) Update(ctx context.Context, req *dto.UpdateTrainingPairRequest) (*dto.TrainingPairResponse, error) {
	pair, err := s.repo.FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, errors.New("training pair not found")
	}

	pair.Question = strings.TrimSpace(req.Question)
	pair.Answer = strings.TrimSpace(req.Answer)
	if req.Category != "" {
		pair.Category = req.Category
	} else {
		pair.Category = CategorizeQuestion(pair.Question)
	}
	pair.QualityScore = req.QualityScore
	pair.UserFeedback = req.UserFeedback

	if err := s.repo.Update(ctx, pair); err != nil {
		return nil, err
	}
	return toTrainingPairResponse(pair), nil
}

func (s *trainingService) Delete(ctx context.Context, id uuid.UUID) error {
	pair, err := s.repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if pair == nil {
		return errors.New("training pair not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *trainingService) List(ctx context.Context, category string, limit, offset int) (*dto.ListTrainingPairsResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	countSpecs := []specification.Specification{}
	if category != "" {
		specs = append(specs, specification.ByCategory{Category: category})
		countSpecs = append(countSpecs, specification.ByCategory{Category: category})
	}

	pairs, err := s.repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, countSpecs...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.TrainingPairResponse, len(pairs))
	for i, p := range pairs {
		out[i] = toTrainingPairResponse(p)
	}
	return &dto.ListTrainingPairsResponse{
		Total: total,
		Pairs: out,
	}, nil
}

func (s *trainingService) Export(ctx context.Context) ([]*dto.TrainingPairResponse, error) {
	pairs, err := s.repo.FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: false})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TrainingPairResponse, len(pairs))
	for i, p := range pairs {
		out[i] = toTrainingPairResponse(p)
	}
	return out, nil
}

func (s *trainingService) FindAnswer(ctx context.Context, question string) (string, bool) {
	pair, err := s.repo.FindAnswer(ctx, strings.TrimSpace(question))
	if err != nil {
		log.Printf("[WARN] Training lookup failed: %v", err)
		return "", false
	}
	if pair == nil {
		return "", false
	}
	return pair.Answer, true
}

func (s *trainingService) publishPairAdded(ctx context.Context, pair *model.TrainingPair) {
	if s.natsPub == nil {
		return
	}
	evt := events.NewTrainingPairAdded(pair.Category, pair.Question)
	if err := s.natsPub.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish %s event: %v", events.TypeTrainingPairAdded, err)
	}
}

func toTrainingPairResponse(pair *model.TrainingPair) *dto.TrainingPairResponse {
	return &dto.TrainingPairResponse{
		Id:           pair.Id,
		Question:     pair.Question,
		Answer:       pair.Answer,
		Category:     pair.Category,
		QualityScore: pair.QualityScore,
		UserFeedback: pair.UserFeedback,
		Source:       pair.Source,
		CreatedAt:    pair.CreatedAt,
		UpdatedAt:    pair.UpdatedAt,
	}
}

// Seed loads the standard starter pairs. Existing questions are skipped, so
// running the seeder twice does not duplicate rows.
func (s *trainingService) Seed(ctx context.Context) (int, error) {
	added := 0
	for _, seed := range seedTrainingPairs {
		existing, err := s.repo.FindOne(ctx, specification.QuestionContains{Fragment: seed.question})
		if err != nil {
			return added, err
		}
		if existing != nil && strings.EqualFold(existing.Question, seed.question) {
			continue
		}

		pair := &model.TrainingPair{
			Id:           uuid.New(),
			Question:     seed.question,
			Answer:       seed.answer,
			Category:     CategorizeQuestion(seed.question),
			QualityScore: 0.8,
			Source:       "training_payload",
		}
		if err := s.repo.Create(ctx, pair); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

var seedTrainingPairs = []struct {
	question string
	answer   string
}{
	{
		"Halo",
		"Halo! Selamat datang di chatbot DPMPTSP Jawa Tengah. Saya siap membantu Anda dengan informasi pelayanan perizinan dan investasi.",
	},
	{
		"Apa saja layanan yang ada di sini?",
		"Layanan DPMPTSP Jawa Tengah meliputi:\n1. Perizinan Berusaha (NIB, OSS-RBA)\n2. Perizinan Bangunan (PBG, SLF)\n3. Perizinan Lingkungan (AMDAL, UKL-UPL)\n4. Perizinan Usaha Khusus (Apotek, Konstruksi)\n5. Pelayanan Investasi dan Penanaman Modal\n6. Konsultasi dan Pendampingan Usaha",
	},
	{
		"Ini chatbot DPMPTSP ya?",
		"Ya benar, saya adalah chatbot resmi DPMPTSP (Dinas Penanaman Modal dan Pelayanan Terpadu Satu Pintu) Jawa Tengah.",
	},
	{
		"Alamat kantor DPMPTSP di mana?",
		"Kantor DPMPTSP Jawa Tengah berada di Jl. Menteri Supeno No. 2, Tegalsari, Candisari, Kota Semarang, Jawa Tengah 50614.",
	},
	{
		"Jam operasional kantor kapan?",
		"Jam operasional DPMPTSP Jawa Tengah: Senin-Jumat pukul 07.30-16.00 WIB (istirahat 12.00-13.00 WIB).",
	},
	{
		"Nomor telepon yang bisa dihubungi?",
		"Anda dapat menghubungi DPMPTSP Jawa Tengah di nomor telepon (024) 3569988 atau hotline layanan 14000.",
	},
	{
		"Bagaimana cara membuat NIB?",
		"Cara membuat NIB (Nomor Induk Berusaha):\n1. Daftar akun di portal OSS (oss.go.id)\n2. Login dan pilih 'Perizinan Berusaha'\n3. Isi data perusahaan dan penanggung jawab\n4. Upload dokumen persyaratan\n5. Pilih KBLI sesuai bidang usaha\n6. Submit permohonan\n7. NIB akan terbit otomatis jika data lengkap\n\nDokumen yang dibutuhkan: KTP, NPWP, akta pendirian (jika PT/CV).",
	},
	{
		"Apa itu OSS RBA?",
		"OSS-RBA (Online Single Submission Risk Based Approach) adalah sistem perizinan berusaha berbasis risiko. Izin diberikan berdasarkan tingkat risiko usaha: Rendah (NIB), Menengah Rendah (NIB + komitmen), Menengah Tinggi (NIB + izin), Tinggi (izin penuh).",
	},
	{
		"Apa itu KBLI dan bagaimana cara menentukannya?",
		"KBLI (Klasifikasi Baku Lapangan Usaha Indonesia) adalah kode untuk mengklasifikasikan bidang usaha.\n\nCara menentukan:\n1. Buka website oss.go.id\n2. Gunakan fitur pencarian KBLI\n3. Masukkan kata kunci bidang usaha\n4. Pilih kode yang paling sesuai\n5. Perhatikan deskripsi dan batasan aktivitas\n\nContoh: 47191 untuk toko kelontong, 56101 untuk restoran.",
	},
	{
		"Cara mengurus PBG (Persetujuan Bangunan Gedung)?",
		"Prosedur PBG:\n1. Siapkan dokumen teknis (gambar, perhitungan struktur)\n2. Daftar di SIMBG atau datang ke DPMPTSP\n3. Upload/serahkan persyaratan lengkap\n4. Tim teknis melakukan review\n5. Lakukan pembayaran retribusi\n6. PBG terbit setelah semua persyaratan terpenuhi\n\nWaktu proses: 7-14 hari kerja tergantung kompleksitas bangunan.",
	},
	{
		"Saya mau pasang reklame, bagaimana prosedurnya?",
		"Prosedur izin reklame:\n1. Isi formulir permohonan\n2. Lampirkan gambar/desain reklame\n3. Surat persetujuan pemilik lokasi\n4. Denah lokasi pemasangan\n5. NPWP perusahaan\n6. Survey lokasi oleh tim teknis\n7. Pembayaran retribusi\n8. Izin terbit\n\nMasa berlaku: 1 tahun, dapat diperpanjang.",
	},
	{
		"Untuk usaha cafe, perlu izin apa?",
		"Untuk usaha cafe dibutuhkan:\n1. NIB dengan KBLI 56101 (Restoran)\n2. Izin Gangguan (HO)\n3. Sertifikat Laik Higiene Sanitasi\n4. Izin Edar MD untuk makanan olahan\n5. APAR dan izin kebakaran\n6. Izin musik/hiburan jika ada live music",
	},
}
