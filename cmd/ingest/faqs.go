package main

import "github.com/CampusAI/faqbot-mvp/engine/domain"

// seedFAQs is the built-in college FAQ set, used when no data file is given.
var seedFAQs = []domain.FAQ{
	{
		Question: "What are the admission requirements for undergraduate programs?",
		Answer:   "Admission to undergraduate programs typically requires a high school diploma or equivalent, a minimum GPA of 3.0, and submission of SAT/ACT scores. Specific programs like engineering or health sciences may have additional prerequisites. Please visit the official college admissions page for the most current details.",
	},
	{
		Question: "How do I apply for financial aid?",
		Answer:   "To apply for financial aid, you must complete the Free Application for Federal Student Aid (FAFSA) online. Our financial aid office at Punjab Group of Colleges Jaranwala also offers institutional scholarships and grants. We recommend applying early, as deadlines are strict. You can find more information on the Financial Aid section of our website.",
	},
	{
		Question: "Where can I find the academic calendar?",
		Answer:   "The official academic calendar for Punjab Group of Colleges Jaranwala is available on the Registrar's Office section of the college website. It outlines important dates such as registration periods, academic holidays, exam schedules, and commencement ceremonies.",
	},
	{
		Question: "What student support services are available?",
		Answer:   "Punjab Group of Colleges Jaranwala offers a wide range of student support services, including academic advising, free tutoring, career counseling, mental health services, and disability support. These services are designed to help students succeed academically and personally.",
	},
	{
		Question: "Are there on-campus housing options?",
		Answer:   "Yes, Punjab Group of Colleges Jaranwala provides various on-campus housing options including traditional residence halls and apartment-style living. Information on housing applications, room assignments, and residence life policies can be found on the Campus Housing website.",
	},
	{
		Question: "What is the tuition fee for engineering courses?",
		Answer:   "Tuition fees at Punjab Group of Colleges Jaranwala vary by program, credit hours, and residency status. For the most accurate and up-to-date information on engineering course tuition and fees, please refer to the official college fees schedule or contact the Bursar's Office directly.",
	},
	{
		Question: "How can I contact the admissions office?",
		Answer:   "You can contact the Admissions Office at Punjab Group of Colleges Jaranwala by phone at Your College Admissions 8978767575, via email at pgcjrn@gmail.com, or by visiting their office located in Campus admission office during business hours.",
	},
	{
		Question: "What extracurricular activities are offered?",
		Answer:   "Punjab Group of Colleges Jaranwala boasts a vibrant campus life with numerous extracurricular activities, including over 100 student organizations, sports clubs, academic societies, and cultural groups. You can explore the full list and how to join on the Student Life website.",
	},
	{
		Question: "Is there a library on campus?",
		Answer:   "Yes, Punjab Group of Colleges Jaranwala is home to the PGC Library, a comprehensive resource center offering a vast collection of books, journals, digital databases, study spaces, and research assistance. Check the library's website for hours and services.",
	},
	{
		Question: "How do I register for classes?",
		Answer:   "Class registration at Punjab Group of Colleges Jaranwala is typically conducted online through the student portal during designated registration periods. Academic advisors are available to assist with course selection and navigating the registration process.",
	},
}
